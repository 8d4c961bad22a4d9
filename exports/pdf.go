package exports

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/skip2/go-qrcode"

	"voyara/itinerary"
	"voyara/models"
	"voyara/photos"
)

// DocumentData bundles everything the document emitter needs. Handlers
// load it; the emitter only renders.
type DocumentData struct {
	Trip      *models.Trip
	Version   *models.TripVersion
	Segments  []models.TripSegment
	Variants  map[string][]models.SegmentVariant
	Client    *models.Client
	Advisor   *models.Advisor
	Photos    map[string][]photos.Photo
	LogoFile  string // absolute path, optional
	CoverFile string // absolute path, optional
	ShareURL  string // QR target on the cover, optional
}

const (
	pageMargin = 15.0
	contentW   = 180.0 // A4 portrait minus margins
)

type docRenderer struct {
	pdf      *gofpdf.Fpdf
	tr       func(string) string
	data     DocumentData
	approved bool
}

// BuildItineraryPDF renders the full client-facing document: cover, one
// section per day, pricing summary, advisor block. A malformed segment
// degrades to a placeholder line; it never fails the whole document.
func BuildItineraryPDF(data DocumentData) ([]byte, error) {
	if data.Trip == nil || data.Version == nil {
		return nil, errMissingTripData
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("")

	d := &docRenderer{
		pdf:      pdf,
		tr:       pdf.UnicodeTranslatorFromDescriptor(""),
		data:     data,
		approved: data.Version.IsApproved(data.Trip),
	}

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(130, 130, 130)
		footer := fmt.Sprintf("%s  |  Page %d/{nb}", d.tr(data.Trip.Title), pdf.PageNo())
		pdf.CellFormat(0, 8, footer, "T", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	})

	d.cover()
	d.daySections()
	d.summaryBlock()
	d.advisorBlock()

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render document: %w", err)
	}
	return buf.Bytes(), nil
}

func (d *docRenderer) currency(code string) string {
	if code != "" {
		return code
	}
	return d.data.Trip.Currency
}

func (d *docRenderer) money(amount float64, code string) string {
	return d.tr(itinerary.FormatMoney(amount, d.currency(code)))
}

// registerFileImage validates an image on disk before handing it to the
// pdf engine. A bad file must not poison the document's error state.
func (d *docRenderer) registerFileImage(name, path string) (string, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		log.Printf("[PDF] unreadable image %s: %v", path, err)
		return "", false
	}
	opts := gofpdf.ImageOptions{ImageType: strings.ToUpper(format)}
	d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(raw))
	return opts.ImageType, true
}

func (d *docRenderer) cover() {
	pdf, trip := d.pdf, d.data.Trip
	pdf.AddPage()

	if d.data.LogoFile != "" {
		if imgType, ok := d.registerFileImage("org-logo", d.data.LogoFile); ok {
			opts := gofpdf.ImageOptions{ImageType: imgType}
			pdf.ImageOptions("org-logo", pageMargin, pageMargin, 32, 0, false, opts, 0, "")
		}
	}

	pdf.SetY(70)
	pdf.SetFont("Arial", "B", 26)
	pdf.MultiCell(contentW, 12, d.tr(trip.Title), "", "C", false)

	if len(trip.Destinations) > 0 {
		pdf.Ln(2)
		pdf.SetFont("Arial", "", 13)
		pdf.SetTextColor(90, 90, 90)
		pdf.MultiCell(contentW, 7, d.tr(strings.Join(trip.Destinations, "  /  ")), "", "C", false)
		pdf.SetTextColor(0, 0, 0)
	}

	if rng := dateRange(trip.StartDate, trip.EndDate); rng != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "", 12)
		pdf.CellFormat(contentW, 7, rng, "", 1, "C", false, 0, "")
	}

	pdf.Ln(10)
	pdf.SetFont("Arial", "", 12)
	if d.data.Client != nil && d.data.Client.Name != "" {
		pdf.CellFormat(contentW, 7, d.tr("Prepared for "+d.data.Client.Name), "", 1, "C", false, 0, "")
	}
	if len(trip.Companions) > 0 {
		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(90, 90, 90)
		pdf.CellFormat(contentW, 6, d.tr("Traveling with "+strings.Join(trip.Companions, ", ")), "", 1, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	if adv := d.data.Advisor; adv != nil {
		pdf.Ln(8)
		pdf.SetFont("Arial", "I", 10)
		by := adv.Name
		if adv.OrgName != "" {
			by += ", " + adv.OrgName
		}
		pdf.CellFormat(contentW, 6, d.tr("Arranged by "+by), "", 1, "C", false, 0, "")
	}

	if d.data.CoverFile != "" {
		if imgType, ok := d.registerFileImage("trip-cover", d.data.CoverFile); ok {
			opts := gofpdf.ImageOptions{ImageType: imgType}
			pdf.ImageOptions("trip-cover", pageMargin+20, 158, contentW-40, 0, false, opts, 0, "")
		}
	}

	if d.data.ShareURL != "" {
		if png, err := qrcode.Encode(d.data.ShareURL, qrcode.Medium, 256); err == nil {
			opts := gofpdf.ImageOptions{ImageType: "PNG"}
			pdf.RegisterImageOptionsReader("share-qr", opts, bytes.NewReader(png))
			pdf.ImageOptions("share-qr", (210-28)/2, 225, 28, 28, false, opts, 0, "")
			pdf.SetY(254)
			pdf.SetFont("Arial", "", 8)
			pdf.SetTextColor(130, 130, 130)
			pdf.CellFormat(contentW, 5, "Scan to view the live itinerary", "", 1, "C", false, 0, "")
			pdf.SetTextColor(0, 0, 0)
		}
	}

	if d.data.Version.Name != "" && !d.approved {
		pdf.SetY(264)
		pdf.SetFont("Arial", "I", 9)
		pdf.SetTextColor(130, 130, 130)
		pdf.CellFormat(contentW, 5, d.tr(d.data.Version.Name), "", 1, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
}

func (d *docRenderer) daySections() {
	pdf := d.pdf
	byDay, days := itinerary.SegmentsByDay(d.data.Segments)
	if len(days) == 0 {
		return
	}

	start, hasStart := time.Time{}, false
	if t, err := time.Parse("2006-01-02", d.data.Trip.StartDate); err == nil {
		start, hasStart = t, true
	}

	pdf.AddPage()
	for _, day := range days {
		header := fmt.Sprintf("Day %d", day)
		if hasStart {
			header = fmt.Sprintf("Day %d - %s", day, start.AddDate(0, 0, day-1).Format("Monday, January 2"))
		}
		d.dayHeader(header)

		items := itinerary.ResolvePropertyGroups(itinerary.ResolveDayItems(byDay[day]))
		for _, it := range items {
			d.renderItemSafe(it)
		}
		pdf.Ln(4)
	}
}

func (d *docRenderer) dayHeader(text string) {
	pdf := d.pdf
	if pdf.GetY() > 250 {
		pdf.AddPage()
	}
	pdf.SetFont("Arial", "B", 13)
	pdf.SetFillColor(232, 237, 245)
	pdf.CellFormat(contentW, 9, "  "+d.tr(text), "", 1, "L", true, 0, "")
	pdf.Ln(2)
}

// renderItemSafe draws one render item, degrading to a placeholder line
// when the item's data is broken. One bad segment never takes down the
// rest of the document.
func (d *docRenderer) renderItemSafe(it itinerary.RenderItem) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Printf("[PDF] item render failed: %v", rec)
			d.pdf.SetFont("Arial", "I", 9)
			d.pdf.SetTextColor(160, 160, 160)
			d.pdf.CellFormat(contentW, 6, "Details unavailable for this item", "", 1, "L", false, 0, "")
			d.pdf.SetTextColor(0, 0, 0)
		}
	}()

	switch it.Kind {
	case itinerary.ItemJourney:
		d.renderJourney(it.Legs)
	case itinerary.ItemChoiceGroup:
		d.renderChoiceGroup(it.Options)
	case itinerary.ItemPropertyGroup:
		d.renderPropertyGroup(it.Rooms)
	default:
		d.renderSegment(it.Segment, true)
	}
	d.pdf.Ln(3)
}

func (d *docRenderer) renderJourney(legs []*models.TripSegment) {
	pdf := d.pdf
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(contentW, 7, d.tr(itinerary.JourneyTitle(legs)), "", 1, "L", false, 0, "")

	for i, leg := range legs {
		d.renderSegment(leg, false)
		if i < len(legs)-1 {
			if lay := itinerary.LayoverBetween(leg, legs[i+1]); lay != nil {
				pdf.SetFont("Arial", "I", 9)
				pdf.SetTextColor(120, 120, 120)
				pdf.CellFormat(contentW, 5.5, "      "+d.tr(lay.Line()), "", 1, "L", false, 0, "")
				pdf.SetTextColor(0, 0, 0)
			}
		}
	}

	// pricing for the whole journey rides on the first leg
	if len(legs) > 0 {
		d.renderSegmentPricing(legs[0])
	}
}

func (d *docRenderer) renderChoiceGroup(options []*models.TripSegment) {
	pdf := d.pdf

	if d.approved {
		// the decision is final: only the chosen option renders
		for _, opt := range options {
			if opt.IsChoiceSelected {
				d.renderSegment(opt, true)
				return
			}
		}
		// no recorded choice survived, fall through to the open block
	}

	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(contentW, 6, "Choose one of the following:", "", 1, "L", false, 0, "")

	startPage := pdf.PageNo()
	startY := pdf.GetY()

	for i, opt := range options {
		d.renderSegment(opt, true)
		if i < len(options)-1 {
			pdf.SetFont("Arial", "B", 9)
			pdf.SetTextColor(150, 150, 150)
			pdf.CellFormat(contentW, 5, "-  OR  -", "", 1, "C", false, 0, "")
			pdf.SetTextColor(0, 0, 0)
		}
	}

	// border only when the block stayed on one page
	if pdf.PageNo() == startPage {
		pdf.SetDrawColor(170, 170, 170)
		pdf.Rect(pageMargin, startY-1, contentW, pdf.GetY()-startY+2, "D")
		pdf.SetDrawColor(0, 0, 0)
		pdf.Ln(2)
	}
}

func (d *docRenderer) renderPropertyGroup(rooms []*models.TripSegment) {
	pdf := d.pdf

	name := ""
	for _, r := range rooms {
		if r.Meta.Hotel != nil && r.Meta.Hotel.HotelName != "" {
			name = r.Meta.Hotel.HotelName
			break
		}
	}
	if name == "" {
		name = "Hotel Stay"
	}

	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(contentW, 7, d.tr(name), "", 1, "L", false, 0, "")

	for _, room := range rooms {
		d.renderRoom(room)
	}

	if d.data.Version.ShowPricing {
		if total := itinerary.PropertyTotal(rooms); total > 0 {
			pdf.SetFont("Arial", "B", 10)
			pdf.CellFormat(contentW, 6, d.tr("Property Total: "+d.money(total, rooms[0].Currency)), "", 1, "R", false, 0, "")
		}
	}
}

// renderRoom is renderSegment without repeating the property name.
func (d *docRenderer) renderRoom(room *models.TripSegment) {
	pdf := d.pdf
	label := "Room"
	if room.Meta.Hotel != nil && room.Meta.Hotel.RoomType != "" {
		label = room.Meta.Hotel.RoomType
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.CellFormat(contentW, 6, "    "+d.tr(label), "", 1, "L", false, 0, "")
	d.renderDetails(room)
	d.renderSegmentPricing(room)
}

func (d *docRenderer) renderSegment(seg *models.TripSegment, withPricing bool) {
	pdf := d.pdf

	head := itinerary.PrimaryLabel(seg)
	if prefix := timePrefix(seg); prefix != "" {
		head = prefix + "  " + head
	}
	pdf.SetFont("Arial", "B", 10)
	pdf.MultiCell(contentW, 6, d.tr(head), "", "L", false)

	if seg.Title != "" && seg.Title != itinerary.PrimaryLabel(seg) {
		pdf.SetFont("Arial", "I", 9)
		pdf.SetTextColor(110, 110, 110)
		pdf.CellFormat(contentW, 5, "    "+d.tr(seg.Title), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	d.renderDetails(seg)
	d.renderPhotos(seg)

	if withPricing {
		d.renderSegmentPricing(seg)
	}
}

func (d *docRenderer) renderDetails(seg *models.TripSegment) {
	pdf := d.pdf
	pdf.SetFont("Arial", "", 9)
	for _, l := range itinerary.DetailLines(seg) {
		if f := seg.Meta.Flight; f != nil && f.DepartureLocal != "" &&
			l == "Departs: "+f.DepartureLocal && itinerary.IsRedEye(f.DepartureLocal) {
			l += " (red-eye)"
		}
		pdf.MultiCell(contentW, 5, "    "+d.tr(l), "", "L", false)
	}
}

func (d *docRenderer) renderSegmentPricing(seg *models.TripSegment) {
	if !d.data.Version.ShowPricing {
		return
	}
	view := itinerary.ResolvePricing(seg, d.data.Variants[seg.SegmentID], d.approved)

	if view.Primary.Amount > 0 {
		line := "Cost: " + d.money(view.Primary.Amount, view.Primary.Currency)
		if view.Primary.PerUnit != "" {
			line += " " + view.Primary.PerUnit
		}
		d.pdf.SetFont("Arial", "", 9)
		d.pdf.CellFormat(contentW, 5, "    "+d.tr(line), "", 1, "L", false, 0, "")
	}

	d.renderOptions(view)
}

// renderOptions draws the variant boxes for the segment's pricing view.
// Finalized views have none; selected views get a single locked box;
// open views list every option.
func (d *docRenderer) renderOptions(view itinerary.PricingView) {
	if !d.data.Version.ShowPricing {
		return
	}
	pdf := d.pdf

	switch view.Mode {
	case itinerary.PricingSelected:
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(236, 245, 236)
		pdf.CellFormat(contentW, 6, "    "+view.Header, "", 1, "L", true, 0, "")
		d.optionRow(*view.Selected, true)
	case itinerary.PricingOpen:
		if len(view.Options) == 0 {
			return
		}
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(240, 240, 240)
		pdf.CellFormat(contentW, 6, "    "+view.Header, "", 1, "L", true, 0, "")
		for _, opt := range view.Options {
			d.optionRow(opt, false)
		}
	}
}

func (d *docRenderer) optionRow(line itinerary.PriceLine, locked bool) {
	pdf := d.pdf
	price := d.money(line.Amount, line.Currency)
	if line.Requested {
		price = "Requested"
	}

	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(contentW-35, 5.5, "      "+d.tr(line.Label), "", 0, "L", false, 0, "")
	style := ""
	if locked || line.Requested {
		style = "B"
	}
	pdf.SetFont("Arial", style, 9)
	pdf.CellFormat(35, 5.5, price, "", 1, "R", false, 0, "")

	sub := line.PerUnit
	if line.RefundText != "" {
		if sub != "" {
			sub += "  "
		}
		sub += line.RefundText
	}
	if sub != "" {
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(120, 120, 120)
		pdf.CellFormat(contentW, 4.5, "      "+d.tr(sub), "", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
}

func (d *docRenderer) renderPhotos(seg *models.TripSegment) {
	imgs := d.data.Photos[seg.SegmentID]
	if len(imgs) == 0 {
		return
	}
	pdf := d.pdf
	if len(imgs) > 2 {
		imgs = imgs[:2]
	}

	const w = 55.0
	y := pdf.GetY() + 1
	if y > 225 {
		pdf.AddPage()
		y = pdf.GetY()
	}

	x := pageMargin + 4
	maxH := 0.0
	opts := gofpdf.ImageOptions{ImageType: "JPEG"}
	for _, p := range imgs {
		info := pdf.RegisterImageOptionsReader(p.Name, opts, bytes.NewReader(p.Bytes))
		h := 36.0
		if info != nil && info.Width() > 0 {
			h = w * info.Height() / info.Width()
		}
		pdf.ImageOptions(p.Name, x, y, w, h, false, opts, 0, "")
		if h > maxH {
			maxH = h
		}
		x += w + 4
	}
	pdf.SetY(y + maxH + 2)
}

func (d *docRenderer) summaryBlock() {
	if !d.data.Version.ShowPricing {
		return
	}
	totals := itinerary.ComputeTotals(d.data.Version, d.data.Segments, d.data.Variants, d.approved, d.data.Trip.Currency)
	if totals == nil {
		return
	}

	pdf := d.pdf
	if pdf.GetY() > 230 {
		pdf.AddPage()
	}
	pdf.Ln(4)
	d.dayHeader("Pricing Summary")

	row := func(label, value string, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		pdf.SetFont("Arial", style, 10)
		pdf.CellFormat(contentW-40, 7, "  "+d.tr(label), "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, value, "", 1, "R", false, 0, "")
	}

	row("Subtotal", d.money(totals.Subtotal, totals.Currency), false)
	if totals.DiscountValue > 0 {
		row(totals.DiscountLabel, "-"+d.money(totals.DiscountValue, totals.Currency), false)
	}
	row("Total", d.money(totals.Total, totals.Currency), true)
}

func (d *docRenderer) advisorBlock() {
	adv := d.data.Advisor
	if adv == nil {
		return
	}
	pdf := d.pdf
	if pdf.GetY() > 240 {
		pdf.AddPage()
	}
	pdf.Ln(6)
	d.dayHeader("Your Advisor")

	pdf.SetFont("Arial", "B", 10)
	name := adv.Name
	if adv.Title != "" {
		name += ", " + adv.Title
	}
	pdf.CellFormat(contentW, 6, "  "+d.tr(name), "", 1, "L", false, 0, "")

	pdf.SetFont("Arial", "", 9)
	for _, line := range []string{adv.OrgName, adv.Email, adv.Phone, adv.Website} {
		if line != "" {
			pdf.CellFormat(contentW, 5.5, "  "+d.tr(line), "", 1, "L", false, 0, "")
		}
	}
}

func timePrefix(seg *models.TripSegment) string {
	switch {
	case seg.StartTime != "" && seg.EndTime != "":
		return seg.StartTime + " - " + seg.EndTime
	case seg.StartTime != "":
		return seg.StartTime
	}
	return ""
}

func dateRange(startDate, endDate string) string {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return ""
	}
	if end, err := time.Parse("2006-01-02", endDate); err == nil {
		return start.Format("Jan 2, 2006") + " - " + end.Format("Jan 2, 2006")
	}
	return start.Format("Jan 2, 2006")
}
