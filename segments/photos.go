package segments

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"

	"voyara/db"
	"voyara/models"
	"voyara/photos"
	"voyara/share"
	"voyara/utils"
)

const maxPhotoSize = 8 << 20 // 8 MiB

// UploadSegmentPhoto attaches one image to a segment. Uploads are
// normalized to bounded JPEGs so the share view and the document
// emitter never meet a camera original.
func UploadSegmentPhoto(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	segmentID := ps.ByName("segmentid")

	seg, err := utils.FindOneAndDecode[models.TripSegment](ctx, db.SegmentsCollection,
		bson.M{"segmentid": segmentID, "orgId": orgID})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "segment not found")
		return
	}

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid upload")
		return
	}
	file, header, err := r.FormFile("photo")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "photo field is required")
		return
	}
	defer file.Close()

	if header.Size > maxPhotoSize {
		utils.RespondWithError(w, http.StatusBadRequest, "photo exceeds the size limit")
		return
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png":
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "photo must be a jpeg or png")
		return
	}

	rel, err := photos.SaveImage(utils.StaticDir(), "photos", file, ext)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "could not process photo", err)
		return
	}

	if _, err := db.SegmentsCollection.UpdateOne(ctx,
		bson.M{"segmentid": segmentID, "orgId": orgID},
		bson.M{"$push": bson.M{"photos": rel}, "$set": bson.M{"updatedAt": time.Now()}}); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not attach photo", err)
		return
	}

	share.InvalidateTripCache(seg.TripID)
	utils.RespondWithJSON(w, http.StatusCreated, map[string]string{"path": rel})
}

// RemoveSegmentPhoto detaches one photo path and deletes the file.
func RemoveSegmentPhoto(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	segmentID := ps.ByName("segmentid")

	var req struct {
		Path string `json:"path"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "path is required")
		return
	}

	seg, err := utils.FindOneAndDecode[models.TripSegment](ctx, db.SegmentsCollection,
		bson.M{"segmentid": segmentID, "orgId": orgID})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "segment not found")
		return
	}

	if _, err := db.SegmentsCollection.UpdateOne(ctx,
		bson.M{"segmentid": segmentID, "orgId": orgID},
		bson.M{"$pull": bson.M{"photos": req.Path}, "$set": bson.M{"updatedAt": time.Now()}}); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not detach photo", err)
		return
	}

	full := filepath.Join(utils.StaticDir(), filepath.Clean("/"+req.Path))
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		log.Printf("[Segments] remove photo %s: %v", req.Path, err)
	}

	share.InvalidateTripCache(seg.TripID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"removed": true})
}
