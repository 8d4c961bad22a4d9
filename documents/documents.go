// Package documents is the client vault: passport scans, vouchers, visa
// letters. Bytes live in a BlobStore, local disk under the static root
// by default; Mongo holds the lookup metadata.
package documents

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"voyara/db"
	"voyara/models"
	"voyara/mq"
	"voyara/photos"
	"voyara/utils"
)

func validCategory(c string) bool {
	switch c {
	case "passport", "visa", "insurance", "ticket", "voucher", "other":
		return true
	}
	return false
}

func UploadDocument(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	userID, _ := utils.GetUserIDFromRequest(r)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	clientID := r.FormValue("clientId")
	tripID := r.FormValue("tripId")
	if clientID == "" && tripID == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "clientId or tripId is required")
		return
	}
	if clientID != "" {
		n, err := db.ClientsCollection.CountDocuments(ctx, bson.M{"clientid": clientID, "orgId": orgID})
		if err != nil || n == 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "unknown client")
			return
		}
	}
	if tripID != "" {
		n, err := db.TripsCollection.CountDocuments(ctx, bson.M{"tripid": tripID, "orgId": orgID})
		if err != nil || n == 0 {
			utils.RespondWithError(w, http.StatusBadRequest, "unknown trip")
			return
		}
	}

	rel, contentType, size, err := saveUpload(file, header)
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		name = header.Filename
	}
	category := r.FormValue("category")
	if !validCategory(category) {
		category = "other"
	}

	doc := models.TravelDocument{
		DocumentID:  utils.GenerateID("doc"),
		OrgID:       orgID,
		ClientID:    clientID,
		TripID:      tripID,
		Name:        name,
		Category:    category,
		FileName:    rel,
		ContentType: contentType,
		Size:        size,
		UploadedBy:  userID,
		CreatedAt:   time.Now(),
	}
	// thumbnails only exist for the disk store, next to the original
	if ds, ok := store.(*DiskStore); ok && isImageExt(strings.ToLower(filepath.Ext(rel))) {
		if thumb, err := photos.Thumbnail(ds.root(), rel); err == nil {
			doc.Thumbnail = thumb
		} else {
			log.Printf("[Documents] thumbnail for %s: %v", rel, err)
		}
	}

	if _, err := db.DocumentsCollection.InsertOne(ctx, doc); err != nil {
		removeBlob(rel)
		utils.Error(w, http.StatusInternalServerError, "could not store document", err)
		return
	}

	mq.Emit(mq.DocumentAdded, mq.Message{OrgID: orgID, TripID: tripID, Ref: doc.DocumentID, Detail: name})
	utils.RespondWithJSON(w, http.StatusCreated, doc)
}

func GetDocuments(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	page := utils.ParsePagination(r, 25, 100)

	filter := bson.M{"orgId": orgID}
	if clientID := r.URL.Query().Get("clientId"); clientID != "" {
		filter["clientId"] = clientID
	}
	if tripID := r.URL.Query().Get("tripId"); tripID != "" {
		filter["tripId"] = tripID
	}
	if category := r.URL.Query().Get("category"); category != "" {
		filter["category"] = category
	}

	list, err := utils.FindAndDecode[models.TravelDocument](ctx, db.DocumentsCollection, filter,
		options.Find().
			SetSort(bson.M{"createdAt": -1}).
			SetSkip(int64(page.Skip)).
			SetLimit(int64(page.Limit)))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not list documents", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

func GetDocument(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	doc, err := utils.FindOneAndDecode[models.TravelDocument](ctx, db.DocumentsCollection,
		bson.M{"documentid": ps.ByName("documentid"), "orgId": orgID})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "document not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, doc)
}

func DownloadDocument(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	doc, err := utils.FindOneAndDecode[models.TravelDocument](ctx, db.DocumentsCollection,
		bson.M{"documentid": ps.ByName("documentid"), "orgId": orgID})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "document not found")
		return
	}

	f, err := store.Open(doc.FileName)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "document file missing", err)
		return
	}
	defer f.Close()

	download := doc.Name
	if ext := filepath.Ext(doc.FileName); ext != "" && !strings.HasSuffix(strings.ToLower(download), ext) {
		download += ext
	}
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download))
	if _, err := io.Copy(w, f); err != nil {
		log.Printf("[Documents] stream %s: %v", doc.DocumentID, err)
	}
}

func DeleteDocument(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	documentID := ps.ByName("documentid")

	doc, err := utils.FindOneAndDecode[models.TravelDocument](ctx, db.DocumentsCollection,
		bson.M{"documentid": documentID, "orgId": orgID})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "document not found")
		return
	}
	if _, err := db.DocumentsCollection.DeleteOne(ctx,
		bson.M{"documentid": documentID, "orgId": orgID}); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not delete document", err)
		return
	}

	removeBlob(doc.FileName)
	removeBlob(doc.Thumbnail)
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
