package exports

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"voyara/advisors"
	"voyara/db"
	"voyara/models"
	"voyara/photos"
	"voyara/utils"
)

var errNotFound = errors.New("not found")

// LoadDocumentData assembles everything the calendar and document
// emitters consume. An empty versionID resolves to the approved version
// when one exists, else the primary one.
func LoadDocumentData(ctx context.Context, orgID, tripID, versionID string) (*DocumentData, error) {
	trip, err := utils.FindOneAndDecode[models.Trip](ctx, db.TripsCollection,
		bson.M{"tripid": tripID, "orgId": orgID})
	if err != nil {
		return nil, errNotFound
	}

	version, err := resolveVersion(ctx, orgID, trip, versionID)
	if err != nil {
		return nil, err
	}

	segments, err := utils.FindAndDecode[models.TripSegment](ctx, db.SegmentsCollection,
		bson.M{"versionId": version.VersionID, "orgId": orgID},
		options.Find().SetSort(bson.D{{Key: "dayNumber", Value: 1}, {Key: "sortOrder", Value: 1}}))
	if err != nil {
		return nil, err
	}

	variants, err := loadVariants(ctx, orgID, segments)
	if err != nil {
		return nil, err
	}

	client, _ := utils.FindOneAndDecode[models.Client](ctx, db.ClientsCollection,
		bson.M{"clientid": trip.ClientID, "orgId": orgID})
	advisor := advisors.ForTrip(ctx, orgID, trip.AdvisorID)

	refs := make([]*models.TripSegment, len(segments))
	for i := range segments {
		refs[i] = &segments[i]
	}

	data := &DocumentData{
		Trip:     trip,
		Version:  version,
		Segments: segments,
		Variants: variants,
		Client:   client,
		Advisor:  advisor,
		Photos:   photos.NewResolver(utils.StaticDir()).ResolveAll(refs),
	}
	if advisor != nil && advisor.LogoPath != "" {
		data.LogoFile = filepath.Join(utils.StaticDir(), filepath.Clean("/"+advisor.LogoPath))
	}
	if trip.CoverPhotoURL != "" {
		data.CoverFile = filepath.Join(utils.StaticDir(), filepath.Clean("/"+trip.CoverPhotoURL))
	}
	return data, nil
}

func resolveVersion(ctx context.Context, orgID string, trip *models.Trip, versionID string) (*models.TripVersion, error) {
	filter := bson.M{"tripId": trip.TripID, "orgId": orgID}
	switch {
	case versionID != "":
		filter["versionid"] = versionID
	case trip.ApprovedVersionID != "":
		filter["versionid"] = trip.ApprovedVersionID
	default:
		filter["isPrimary"] = true
	}
	version, err := utils.FindOneAndDecode[models.TripVersion](ctx, db.VersionsCollection, filter)
	if err != nil {
		return nil, errNotFound
	}
	return version, nil
}

func loadVariants(ctx context.Context, orgID string, segments []models.TripSegment) (map[string][]models.SegmentVariant, error) {
	var ids []string
	for i := range segments {
		if segments[i].HasVariants {
			ids = append(ids, segments[i].SegmentID)
		}
	}
	if len(ids) == 0 {
		return map[string][]models.SegmentVariant{}, nil
	}

	list, err := utils.FindAndDecode[models.SegmentVariant](ctx, db.VariantsCollection,
		bson.M{"segmentId": bson.M{"$in": ids}, "orgId": orgID},
		options.Find().SetSort(bson.M{"createdAt": 1}))
	if err != nil {
		return nil, err
	}

	out := make(map[string][]models.SegmentVariant, len(ids))
	for _, v := range list {
		out[v.SegmentID] = append(out[v.SegmentID], v)
	}
	return out, nil
}

// DownloadICS serves the version as an iCalendar file.
func DownloadICS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	data, err := LoadDocumentData(ctx, orgID, ps.ByName("tripid"), ps.ByName("versionid"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "trip or version not found")
		return
	}

	ics, err := BuildICS(data.Trip, data.Version, data.Segments)
	if err != nil {
		utils.Error(w, http.StatusUnprocessableEntity, "calendar export failed", err)
		return
	}
	ServeICS(w, data.Trip, ics)
}

// DownloadPDF serves the version as the client document.
func DownloadPDF(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	orgID, _ := utils.GetOrgIDFromRequest(r)
	data, err := LoadDocumentData(ctx, orgID, ps.ByName("tripid"), ps.ByName("versionid"))
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "trip or version not found")
		return
	}

	pdf, err := BuildItineraryPDF(*data)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "document export failed", err)
		return
	}
	ServePDF(w, data.Trip, pdf)
}

func ServeICS(w http.ResponseWriter, trip *models.Trip, ics string) {
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", ICSFileName(trip)))
	_, _ = w.Write([]byte(ics))
}

func ServePDF(w http.ResponseWriter, trip *models.Trip, pdf []byte) {
	name := ICSFileName(trip)
	name = name[:len(name)-len(".ics")] + ".pdf"
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(pdf)
}
