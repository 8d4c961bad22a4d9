package trips

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"voyara/db"
	"voyara/models"
	"voyara/mq"
	"voyara/share"
	"voyara/utils"
)

type versionRequest struct {
	Name          string `json:"name"`
	ShowPricing   *bool  `json:"showPricing"`
	Discount      int    `json:"discount"`
	DiscountType  string `json:"discountType"`
	DiscountLabel string `json:"discountLabel"`
	Notes         string `json:"notes"`
}

func CreateVersion(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	tripID := ps.ByName("tripid")

	count, err := utils.CountDocs(ctx, db.TripsCollection, bson.M{"tripid": tripID, "orgId": orgID})
	if err != nil || count == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "trip not found")
		return
	}

	var req versionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		utils.RespondWithError(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.DiscountType != "" && req.DiscountType != models.DiscountPercent && req.DiscountType != models.DiscountFixed {
		utils.RespondWithError(w, http.StatusBadRequest, "discountType must be percent or fixed")
		return
	}

	existing, err := db.VersionsCollection.CountDocuments(ctx, bson.M{"tripId": tripID, "orgId": orgID})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not count versions", err)
		return
	}

	now := time.Now()
	version := models.TripVersion{
		VersionID:     utils.GenerateID("ver"),
		TripID:        tripID,
		OrgID:         orgID,
		Name:          req.Name,
		IsPrimary:     existing == 0,
		ShowPricing:   req.ShowPricing == nil || *req.ShowPricing,
		Discount:      req.Discount,
		DiscountType:  req.DiscountType,
		DiscountLabel: req.DiscountLabel,
		Notes:         req.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := db.VersionsCollection.InsertOne(ctx, version); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not create version", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, version)
}

func UpdateVersion(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	versionID := ps.ByName("versionid")

	var req versionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DiscountType != "" && req.DiscountType != models.DiscountPercent && req.DiscountType != models.DiscountFixed {
		utils.RespondWithError(w, http.StatusBadRequest, "discountType must be percent or fixed")
		return
	}

	set := bson.M{
		"discount":      req.Discount,
		"discountType":  req.DiscountType,
		"discountLabel": req.DiscountLabel,
		"notes":         req.Notes,
		"updatedAt":     time.Now(),
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		set["name"] = name
	}
	if req.ShowPricing != nil {
		set["showPricing"] = *req.ShowPricing
	}

	res, err := db.VersionsCollection.UpdateOne(ctx,
		bson.M{"versionid": versionID, "orgId": orgID}, bson.M{"$set": set})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not update version", err)
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "version not found")
		return
	}

	invalidateVersionTrip(ctx, orgID, versionID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// DeleteVersion refuses to remove the primary version or the last one
// standing, so a trip always has something to render.
func DeleteVersion(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	versionID := ps.ByName("versionid")

	version, err := utils.FindOneAndDecode[models.TripVersion](ctx, db.VersionsCollection,
		bson.M{"versionid": versionID, "orgId": orgID})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "version not found")
		return
	}
	if version.IsPrimary {
		utils.RespondWithError(w, http.StatusConflict, "cannot delete the primary version")
		return
	}
	siblings, err := db.VersionsCollection.CountDocuments(ctx, bson.M{"tripId": version.TripID, "orgId": orgID})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not count versions", err)
		return
	}
	if siblings <= 1 {
		utils.RespondWithError(w, http.StatusConflict, "cannot delete the only version")
		return
	}

	segments, err := utils.FindAndDecode[models.TripSegment](ctx, db.SegmentsCollection,
		bson.M{"versionId": versionID, "orgId": orgID})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not load segments", err)
		return
	}
	for i := range segments {
		if _, err := db.VariantsCollection.DeleteMany(ctx,
			bson.M{"segmentId": segments[i].SegmentID, "orgId": orgID}); err != nil {
			utils.Error(w, http.StatusInternalServerError, "could not delete variants", err)
			return
		}
	}
	if _, err := db.SegmentsCollection.DeleteMany(ctx, bson.M{"versionId": versionID, "orgId": orgID}); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not delete segments", err)
		return
	}
	if _, err := db.VersionsCollection.DeleteOne(ctx, bson.M{"versionid": versionID, "orgId": orgID}); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not delete version", err)
		return
	}

	// an approved pointer at a deleted version would dangle
	_, _ = db.TripsCollection.UpdateOne(ctx,
		bson.M{"tripid": version.TripID, "orgId": orgID, "approvedVersionId": versionID},
		bson.M{"$set": bson.M{"approvedVersionId": "", "updatedAt": time.Now()}})

	share.InvalidateTripCache(version.TripID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// SetPrimaryVersion demotes every sibling first, then promotes the target.
func SetPrimaryVersion(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	versionID := ps.ByName("versionid")

	version, err := utils.FindOneAndDecode[models.TripVersion](ctx, db.VersionsCollection,
		bson.M{"versionid": versionID, "orgId": orgID})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "version not found")
		return
	}

	if _, err := db.VersionsCollection.UpdateMany(ctx,
		bson.M{"tripId": version.TripID, "orgId": orgID},
		bson.M{"$set": bson.M{"isPrimary": false}}); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not demote versions", err)
		return
	}
	if _, err := db.VersionsCollection.UpdateOne(ctx,
		bson.M{"versionid": versionID, "orgId": orgID},
		bson.M{"$set": bson.M{"isPrimary": true, "updatedAt": time.Now()}}); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not promote version", err)
		return
	}

	share.InvalidateTripCache(version.TripID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"primary": true})
}

// ApproveVersion pins the trip to one version. Variants the client had
// submitted but the advisor never confirmed become selected, so the
// approved document prices what was actually asked for.
func ApproveVersion(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	versionID := ps.ByName("versionid")

	version, err := utils.FindOneAndDecode[models.TripVersion](ctx, db.VersionsCollection,
		bson.M{"versionid": versionID, "orgId": orgID})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "version not found")
		return
	}

	res, err := db.TripsCollection.UpdateOne(ctx,
		bson.M{"tripid": version.TripID, "orgId": orgID},
		bson.M{"$set": bson.M{"approvedVersionId": versionID, "status": "approved", "updatedAt": time.Now()}})
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not approve version", err)
		return
	}
	if res.MatchedCount == 0 {
		utils.RespondWithError(w, http.StatusNotFound, "trip not found")
		return
	}

	promoteSubmittedVariants(ctx, orgID, versionID)

	share.InvalidateTripCache(version.TripID)
	mq.Emit(mq.VersionApproved, mq.Message{OrgID: orgID, TripID: version.TripID, Ref: versionID})
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"approved": true})
}

func UnapproveVersion(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	versionID := ps.ByName("versionid")

	version, err := utils.FindOneAndDecode[models.TripVersion](ctx, db.VersionsCollection,
		bson.M{"versionid": versionID, "orgId": orgID})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "version not found")
		return
	}

	if _, err := db.TripsCollection.UpdateOne(ctx,
		bson.M{"tripid": version.TripID, "orgId": orgID, "approvedVersionId": versionID},
		bson.M{"$set": bson.M{"approvedVersionId": "", "status": "planning", "updatedAt": time.Now()}}); err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not unapprove version", err)
		return
	}

	share.InvalidateTripCache(version.TripID)
	utils.RespondWithJSON(w, http.StatusOK, map[string]bool{"approved": false})
}

func DuplicateVersion(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	versionID := ps.ByName("versionid")

	src, err := utils.FindOneAndDecode[models.TripVersion](ctx, db.VersionsCollection,
		bson.M{"versionid": versionID, "orgId": orgID})
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "version not found")
		return
	}

	dst, err := copyVersion(ctx, orgID, src, src.TripID, src.Name+" (Copy)", false)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not duplicate version", err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, dst)
}

// promoteSubmittedVariants selects the submitted variant on every segment
// of the version that has no selection yet. First submitted wins when a
// client managed to submit more than one.
func promoteSubmittedVariants(ctx context.Context, orgID, versionID string) {
	segments, err := utils.FindAndDecode[models.TripSegment](ctx, db.SegmentsCollection,
		bson.M{"versionId": versionID, "orgId": orgID, "hasVariants": true})
	if err != nil {
		return
	}
	for i := range segments {
		seg := &segments[i]
		variants, err := utils.FindAndDecode[models.SegmentVariant](ctx, db.VariantsCollection,
			bson.M{"segmentId": seg.SegmentID, "orgId": orgID},
			options.Find().SetSort(bson.M{"createdAt": 1}))
		if err != nil {
			continue
		}
		if models.SelectedVariant(variants) != nil {
			continue
		}
		for j := range variants {
			if variants[j].IsSubmitted {
				_, _ = db.VariantsCollection.UpdateOne(ctx,
					bson.M{"variantid": variants[j].VariantID, "orgId": orgID},
					bson.M{"$set": bson.M{"isSelected": true, "updatedAt": time.Now()}})
				break
			}
		}
	}
}

func copyVersion(ctx context.Context, orgID string, src *models.TripVersion, tripID, name string, primary bool) (*models.TripVersion, error) {
	dst := *src
	dst.VersionID = utils.GenerateID("ver")
	dst.TripID = tripID
	dst.Name = name
	dst.IsPrimary = primary
	dst.CreatedAt = time.Now()
	dst.UpdatedAt = dst.CreatedAt
	if _, err := db.VersionsCollection.InsertOne(ctx, dst); err != nil {
		return nil, err
	}

	segments, err := utils.FindAndDecode[models.TripSegment](ctx, db.SegmentsCollection,
		bson.M{"versionId": src.VersionID, "orgId": orgID})
	if err != nil {
		return nil, err
	}
	for i := range segments {
		seg := segments[i]
		oldSegID := seg.SegmentID
		seg.SegmentID = utils.GenerateID("seg")
		seg.VersionID = dst.VersionID
		seg.TripID = tripID
		seg.ConfirmationNumber = ""
		seg.IsChoiceSelected = false
		seg.CreatedAt = time.Now()
		seg.UpdatedAt = seg.CreatedAt
		if _, err := db.SegmentsCollection.InsertOne(ctx, seg); err != nil {
			return nil, err
		}

		variants, err := utils.FindAndDecode[models.SegmentVariant](ctx, db.VariantsCollection,
			bson.M{"segmentId": oldSegID, "orgId": orgID})
		if err != nil {
			return nil, err
		}
		for j := range variants {
			vr := variants[j]
			vr.VariantID = utils.GenerateID("var")
			vr.SegmentID = seg.SegmentID
			vr.IsSelected = false
			vr.IsSubmitted = false
			vr.CreatedAt = time.Now()
			vr.UpdatedAt = vr.CreatedAt
			if _, err := db.VariantsCollection.InsertOne(ctx, vr); err != nil {
				return nil, err
			}
		}
	}
	return &dst, nil
}

func copyVersionInto(ctx context.Context, orgID string, src *models.TripVersion, tripID, name string, primary bool) error {
	_, err := copyVersion(ctx, orgID, src, tripID, name, primary)
	return err
}

func invalidateVersionTrip(ctx context.Context, orgID, versionID string) {
	version, err := utils.FindOneAndDecode[models.TripVersion](ctx, db.VersionsCollection,
		bson.M{"versionid": versionID, "orgId": orgID})
	if err != nil {
		return
	}
	share.InvalidateTripCache(version.TripID)
}
