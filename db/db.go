package db

import (
	"context"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Client *mongo.Client

var (
	TripsCollection          *mongo.Collection
	VersionsCollection       *mongo.Collection
	SegmentsCollection       *mongo.Collection
	VariantsCollection       *mongo.Collection
	ClientsCollection        *mongo.Collection
	DocumentsCollection      *mongo.Collection
	SharesCollection         *mongo.Collection
	TrackedFlightsCollection *mongo.Collection
	MessagesCollection       *mongo.Collection
	AdvisorsCollection       *mongo.Collection
	UsersCollection          *mongo.Collection
	ActivitiesCollection     *mongo.Collection
)

func init() {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		uri = "mongodb://localhost:27017"
	}
	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "voyara"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("[Mongo] connect failed: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		log.Printf("[Mongo] ping failed (continuing, lazy connect): %v", err)
	}
	Client = client

	database := client.Database(dbName)
	TripsCollection = database.Collection("trips")
	VersionsCollection = database.Collection("versions")
	SegmentsCollection = database.Collection("segments")
	VariantsCollection = database.Collection("variants")
	ClientsCollection = database.Collection("clients")
	DocumentsCollection = database.Collection("documents")
	SharesCollection = database.Collection("shares")
	TrackedFlightsCollection = database.Collection("tracked_flights")
	MessagesCollection = database.Collection("messages")
	AdvisorsCollection = database.Collection("advisors")
	UsersCollection = database.Collection("users")
	ActivitiesCollection = database.Collection("activity")
}
