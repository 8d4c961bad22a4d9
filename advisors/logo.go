package advisors

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"voyara/db"
	"voyara/photos"
	"voyara/utils"
)

const maxLogoSize = 4 << 20 // 4 MiB

// UploadLogo stores the org logo rendered on document covers.
func UploadLogo(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, _ := utils.GetUserIDFromRequest(r)
	orgID, _ := utils.GetOrgIDFromRequest(r)

	if err := r.ParseMultipartForm(maxLogoSize); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid upload")
		return
	}
	file, header, err := r.FormFile("logo")
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "logo field is required")
		return
	}
	defer file.Close()

	if header.Size > maxLogoSize {
		utils.RespondWithError(w, http.StatusBadRequest, "logo exceeds the size limit")
		return
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png":
	default:
		utils.RespondWithError(w, http.StatusBadRequest, "logo must be a jpeg or png")
		return
	}

	rel, err := photos.SaveImage(utils.StaticDir(), "logos", file, ext)
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "could not process logo", err)
		return
	}

	opts := options.Update().SetUpsert(true)
	if _, err := db.AdvisorsCollection.UpdateOne(ctx,
		bson.M{"advisorid": userID, "orgId": orgID},
		bson.M{"$set": bson.M{"logoPath": rel, "orgId": orgID, "updatedAt": time.Now()}}, opts); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not save logo", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"logoPath": rel})
}
