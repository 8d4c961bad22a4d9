package share

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"

	"voyara/db"
	"voyara/exports"
	"voyara/itinerary"
	"voyara/models"
	"voyara/mq"
	"voyara/rdx"
	"voyara/utils"
)

// tripView is the public JSON shape of a shared itinerary. It exposes
// resolved display data only, never raw records.
type tripView struct {
	Trip    tripHeader               `json:"trip"`
	Version versionView              `json:"version"`
	Advisor *advisorView             `json:"advisor,omitempty"`
	Days    []dayView                `json:"days"`
	Totals  *itinerary.TotalsSummary `json:"totals,omitempty"`
}

type tripHeader struct {
	Title         string   `json:"title"`
	Destinations  []string `json:"destinations,omitempty"`
	StartDate     string   `json:"startDate,omitempty"`
	EndDate       string   `json:"endDate,omitempty"`
	ClientName    string   `json:"clientName,omitempty"`
	Companions    []string `json:"companions,omitempty"`
	CoverPhotoURL string   `json:"coverPhotoUrl,omitempty"`
	Approved      bool     `json:"approved"`
}

type versionView struct {
	Name        string `json:"name"`
	Notes       string `json:"notes,omitempty"`
	ShowPricing bool   `json:"showPricing"`
}

type advisorView struct {
	Name    string `json:"name"`
	Title   string `json:"title,omitempty"`
	OrgName string `json:"orgName,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Website string `json:"website,omitempty"`
}

type dayView struct {
	Day   int        `json:"day"`
	Label string     `json:"label"`
	Items []itemView `json:"items"`
}

type itemView struct {
	Kind          string                 `json:"kind"`
	Type          string                 `json:"type,omitempty"`
	Title         string                 `json:"title"`
	Subtitle      string                 `json:"subtitle,omitempty"`
	Time          string                 `json:"time,omitempty"`
	RedEye        bool                   `json:"redEye,omitempty"`
	Chosen        bool                   `json:"chosen,omitempty"`
	Details       []string               `json:"details,omitempty"`
	Location      string                 `json:"location,omitempty"`
	Photos        []string               `json:"photos,omitempty"`
	Legs          []itemView             `json:"legs,omitempty"`
	Layover       *itinerary.Layover     `json:"layover,omitempty"` // connection to the next leg
	Options       []itemView             `json:"options,omitempty"`
	Rooms         []itemView             `json:"rooms,omitempty"`
	PropertyTotal float64                `json:"propertyTotal,omitempty"`
	Pricing       *itinerary.PricingView `json:"pricing,omitempty"`
}

// ViewShare serves the resolved itinerary JSON for a share token. Hot
// responses come from Redis; the link itself is always re-checked so
// revocation and expiry take effect immediately.
func ViewShare(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	token := ps.ByName("token")
	link, ok := resolveShare(ctx, w, token)
	if !ok {
		return
	}

	if cached, err := rdx.RdxGet(viewCacheKey(token)); err == nil && cached != "" {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("X-Cache", "hit")
		_, _ = w.Write([]byte(cached))
		markViewed(link)
		return
	}

	data, err := exports.LoadDocumentData(ctx, link.OrgID, link.TripID, link.VersionID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "itinerary not found")
		return
	}

	raw, err := json.Marshal(buildView(data))
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "could not render itinerary", err)
		return
	}
	if err := rdx.RdxSetWithTTL(viewCacheKey(token), string(raw), viewCacheTTL); err != nil {
		log.Printf("[Share] cache store failed: %v", err)
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(raw)
	markViewed(link)
}

// ShareICS serves the shared itinerary as an iCalendar file.
func ShareICS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	link, ok := resolveShare(ctx, w, ps.ByName("token"))
	if !ok {
		return
	}
	data, err := exports.LoadDocumentData(ctx, link.OrgID, link.TripID, link.VersionID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "itinerary not found")
		return
	}

	ics, err := exports.BuildICS(data.Trip, data.Version, data.Segments)
	if err != nil {
		utils.Error(w, http.StatusUnprocessableEntity, "calendar export failed", err)
		return
	}
	exports.ServeICS(w, data.Trip, ics)
	markViewed(link)
}

// SharePDF serves the shared itinerary as the client document. The
// cover QR points back at this link.
func SharePDF(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	token := ps.ByName("token")
	link, ok := resolveShare(ctx, w, token)
	if !ok {
		return
	}
	data, err := exports.LoadDocumentData(ctx, link.OrgID, link.TripID, link.VersionID)
	if err != nil {
		utils.RespondWithError(w, http.StatusNotFound, "itinerary not found")
		return
	}
	data.ShareURL = LinkURL(token)

	pdf, err := exports.BuildItineraryPDF(*data)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "document export failed", err)
		return
	}
	exports.ServePDF(w, data.Trip, pdf)
	markViewed(link)
}

// Sentinel results of Resolve, for callers outside this package.
var (
	ErrUnknownToken = errors.New("unknown share token")
	ErrLinkDisabled = errors.New("share link revoked or expired")
)

// Resolve looks a token up and checks that it still grants access.
func Resolve(ctx context.Context, token string) (*models.ShareLink, error) {
	link, err := utils.FindOneAndDecode[models.ShareLink](ctx, db.SharesCollection, bson.M{"token": token})
	if err != nil {
		return nil, ErrUnknownToken
	}
	if !link.Usable(time.Now()) {
		return nil, ErrLinkDisabled
	}
	return link, nil
}

func resolveShare(ctx context.Context, w http.ResponseWriter, token string) (*models.ShareLink, bool) {
	link, err := Resolve(ctx, token)
	switch {
	case errors.Is(err, ErrUnknownToken):
		utils.RespondWithError(w, http.StatusNotFound, "unknown link")
		return nil, false
	case errors.Is(err, ErrLinkDisabled):
		utils.RespondWithError(w, http.StatusGone, "this link is no longer active")
		return nil, false
	}
	return link, true
}

func markViewed(link *models.ShareLink) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if _, err := db.SharesCollection.UpdateOne(ctx,
			bson.M{"token": link.Token},
			bson.M{"$inc": bson.M{"viewCount": 1}}); err != nil {
			log.Printf("[Share] view count update failed: %v", err)
		}
		mq.Emit(mq.ShareViewed, mq.Message{OrgID: link.OrgID, TripID: link.TripID, Ref: link.Token})
	}()
}

func buildView(data *exports.DocumentData) tripView {
	b := &viewBuilder{
		data:     data,
		approved: data.Version.IsApproved(data.Trip),
		pricing:  data.Version.ShowPricing,
	}

	view := tripView{
		Trip: tripHeader{
			Title:         data.Trip.Title,
			Destinations:  data.Trip.Destinations,
			StartDate:     data.Trip.StartDate,
			EndDate:       data.Trip.EndDate,
			Companions:    data.Trip.Companions,
			CoverPhotoURL: data.Trip.CoverPhotoURL,
			Approved:      b.approved,
		},
		Version: versionView{
			Name:        data.Version.Name,
			Notes:       data.Version.Notes,
			ShowPricing: data.Version.ShowPricing,
		},
		Days: []dayView{},
	}
	if data.Client != nil {
		view.Trip.ClientName = data.Client.Name
	}
	if a := data.Advisor; a != nil {
		view.Advisor = &advisorView{
			Name:    a.Name,
			Title:   a.Title,
			OrgName: a.OrgName,
			Email:   a.Email,
			Phone:   a.Phone,
			Website: a.Website,
		}
	}

	byDay, days := itinerary.SegmentsByDay(data.Segments)
	for _, day := range days {
		items := itinerary.ResolvePropertyGroups(itinerary.ResolveDayItems(byDay[day]))
		dv := dayView{Day: day, Label: dayLabel(data.Trip, day)}
		for _, it := range items {
			dv.Items = append(dv.Items, b.item(it))
		}
		view.Days = append(view.Days, dv)
	}

	if b.pricing {
		view.Totals = itinerary.ComputeTotals(data.Version, data.Segments, data.Variants, b.approved, tripCurrency(data))
	}
	return view
}

type viewBuilder struct {
	data     *exports.DocumentData
	approved bool
	pricing  bool
}

func (b *viewBuilder) item(it itinerary.RenderItem) itemView {
	switch it.Kind {
	case itinerary.ItemJourney:
		return b.journey(it.Legs)
	case itinerary.ItemChoiceGroup:
		return b.choice(it.Options)
	case itinerary.ItemPropertyGroup:
		return b.property(it.Rooms)
	default:
		return b.segment(it.Segment, true)
	}
}

func (b *viewBuilder) segment(seg *models.TripSegment, withPricing bool) itemView {
	iv := itemView{
		Kind:     itinerary.ItemSegment,
		Type:     seg.Type,
		Title:    itinerary.PrimaryLabel(seg),
		Time:     timeRange(seg),
		Details:  itinerary.DetailLines(seg),
		Location: itinerary.Location(seg),
		Photos:   seg.Photos,
	}
	if seg.Title != "" && seg.Title != iv.Title {
		iv.Subtitle = seg.Title
	}
	if f := seg.Meta.Flight; f != nil && itinerary.IsRedEye(f.DepartureLocal) {
		iv.RedEye = true
	}
	if withPricing && b.pricing {
		pv := itinerary.ResolvePricing(seg, b.data.Variants[seg.SegmentID], b.approved)
		iv.Pricing = &pv
	}
	return iv
}

func (b *viewBuilder) journey(legs []*models.TripSegment) itemView {
	iv := itemView{Kind: itinerary.ItemJourney, Title: itinerary.JourneyTitle(legs)}
	for i, leg := range legs {
		lv := b.segment(leg, i == 0)
		if i < len(legs)-1 {
			lv.Layover = itinerary.LayoverBetween(leg, legs[i+1])
		}
		iv.Legs = append(iv.Legs, lv)
	}
	return iv
}

func (b *viewBuilder) choice(options []*models.TripSegment) itemView {
	if b.approved {
		for _, opt := range options {
			if opt.IsChoiceSelected {
				return b.segment(opt, true)
			}
		}
	}
	iv := itemView{Kind: itinerary.ItemChoiceGroup, Title: "Choose one of the following:"}
	for _, opt := range options {
		ov := b.segment(opt, true)
		ov.Chosen = opt.IsChoiceSelected
		iv.Options = append(iv.Options, ov)
	}
	return iv
}

func (b *viewBuilder) property(rooms []*models.TripSegment) itemView {
	iv := itemView{Kind: itinerary.ItemPropertyGroup}
	if h := rooms[0].Meta.Hotel; h != nil && h.HotelName != "" {
		iv.Title = h.HotelName
	} else {
		iv.Title = rooms[0].Title
	}
	for _, room := range rooms {
		iv.Rooms = append(iv.Rooms, b.segment(room, true))
	}
	if b.pricing {
		iv.PropertyTotal = itinerary.PropertyTotal(rooms)
	}
	return iv
}

func timeRange(seg *models.TripSegment) string {
	switch {
	case seg.StartTime != "" && seg.EndTime != "":
		return seg.StartTime + " - " + seg.EndTime
	case seg.StartTime != "":
		return seg.StartTime
	}
	return ""
}

func dayLabel(trip *models.Trip, day int) string {
	if start, err := utils.ParseDate(trip.StartDate); err == nil {
		return fmt.Sprintf("Day %d - %s", day, start.AddDate(0, 0, day-1).Format("Monday, January 2"))
	}
	return fmt.Sprintf("Day %d", day)
}

func tripCurrency(data *exports.DocumentData) string {
	if data.Trip.Currency != "" {
		return data.Trip.Currency
	}
	for i := range data.Segments {
		if data.Segments[i].Currency != "" {
			return data.Segments[i].Currency
		}
	}
	return ""
}
