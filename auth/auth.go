package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"voyara/db"
	"voyara/middleware"
	"voyara/models"
	"voyara/utils"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	OrgName  string `json:"orgName"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates an advisor account and its organization. The first
// account of an org gets the admin role.
func Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Username = strings.TrimSpace(strings.ToLower(req.Username))
	if req.Username == "" || len(req.Password) < 8 {
		utils.RespondWithError(w, http.StatusBadRequest, "username and a password of at least 8 characters are required")
		return
	}

	count, err := db.UsersCollection.CountDocuments(ctx, bson.M{"username": req.Username})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not check username", err)
		return
	}
	if count > 0 {
		utils.RespondWithError(w, http.StatusConflict, "username already taken")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not hash password", err)
		return
	}

	user := models.User{
		UserID:       utils.GenerateID("usr"),
		OrgID:        utils.GenerateID("org"),
		Username:     req.Username,
		Email:        strings.TrimSpace(req.Email),
		PasswordHash: string(hash),
		Role:         "admin",
		CreatedAt:    time.Now(),
	}
	if _, err := db.UsersCollection.InsertOne(ctx, user); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create account", err)
		return
	}

	// seed the advisor profile so exports have a contact block from day one
	advisor := models.Advisor{
		AdvisorID: user.UserID,
		OrgID:     user.OrgID,
		Name:      user.Username,
		Email:     user.Email,
		OrgName:   strings.TrimSpace(req.OrgName),
		UpdatedAt: time.Now(),
	}
	if _, err := db.AdvisorsCollection.InsertOne(ctx, advisor); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create advisor profile", err)
		return
	}

	token, err := middleware.CreateJWT(user.UserID, user.Username, user.OrgID, user.Role)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not issue token", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, authResponse{Token: token, User: &user})
}

// Login verifies credentials and returns a fresh token.
func Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Username = strings.TrimSpace(strings.ToLower(req.Username))

	var user models.User
	err := db.UsersCollection.FindOne(ctx, bson.M{"username": req.Username}).Decode(&user)
	if err == mongo.ErrNoDocuments {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "login failed", err)
		return
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := middleware.CreateJWT(user.UserID, user.Username, user.OrgID, user.Role)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not issue token", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, authResponse{Token: token, User: &user})
}

// Refresh reissues a token for a still-valid session.
func Refresh(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		utils.RespondWithError(w, http.StatusUnauthorized, "missing token")
		return
	}
	claims, err := middleware.ValidateJWT(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		utils.RespondWithError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}
	token, err := middleware.CreateJWT(claims.UserID, claims.Username, claims.OrgID, claims.Role)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not issue token", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"token": token})
}

// Me returns the account behind the current token.
func Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := utils.GetUserIDFromRequest(r)
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	var user models.User
	if err := db.UsersCollection.FindOne(ctx, bson.M{"userid": userID}).Decode(&user); err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "account not found")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}
