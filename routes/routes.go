package routes

import (
	"net/http"
	"path/filepath"

	"voyara/activity"
	"voyara/advisors"
	"voyara/auth"
	"voyara/chat"
	"voyara/clients"
	"voyara/documents"
	"voyara/exports"
	"voyara/flights"
	"voyara/middleware"
	"voyara/ratelim"
	"voyara/search"
	"voyara/segments"
	"voyara/share"
	"voyara/trips"
	"voyara/utils"

	"github.com/julienschmidt/httprouter"
)

func AddStaticRoutes(router *httprouter.Router) {
	base := utils.StaticDir()
	router.ServeFiles("/static/docs/*filepath", http.Dir(filepath.Join(base, "docs")))
	router.ServeFiles("/static/photos/*filepath", http.Dir(filepath.Join(base, "photos")))
	router.ServeFiles("/static/logos/*filepath", http.Dir(filepath.Join(base, "logos")))
}

func AddAuthRoutes(router *httprouter.Router, rl *ratelim.Limiter) {
	router.POST("/api/v1/auth/register", rl.Limit(auth.Register))
	router.POST("/api/v1/auth/login", rl.Limit(auth.Login))
	router.POST("/api/v1/auth/refresh", rl.Limit(middleware.Authenticate(auth.Refresh)))
	router.GET("/api/v1/auth/me", middleware.Authenticate(auth.Me))
}

func AddAdvisorRoutes(router *httprouter.Router) {
	router.GET("/api/v1/advisor/profile", middleware.Authenticate(advisors.GetProfile))
	router.PUT("/api/v1/advisor/profile", middleware.Authenticate(advisors.UpdateProfile))
	router.POST("/api/v1/advisor/logo", middleware.Authenticate(advisors.UploadLogo))
}

func AddClientRoutes(router *httprouter.Router) {
	router.POST("/api/v1/clients", middleware.Authenticate(clients.CreateClient))
	router.GET("/api/v1/clients", middleware.Authenticate(clients.GetClients))
	router.GET("/api/v1/clients/:clientid", middleware.Authenticate(clients.GetClient))
	router.PUT("/api/v1/clients/:clientid", middleware.Authenticate(clients.UpdateClient))
	router.DELETE("/api/v1/clients/:clientid", middleware.Authenticate(clients.ArchiveClient))
}

func AddTripRoutes(router *httprouter.Router) {
	router.POST("/api/v1/trips", middleware.Authenticate(trips.CreateTrip))
	router.GET("/api/v1/trips", middleware.Authenticate(trips.GetTrips))
	router.GET("/api/v1/trips/:tripid", middleware.Authenticate(trips.GetTrip))
	router.PUT("/api/v1/trips/:tripid", middleware.Authenticate(trips.UpdateTrip))
	router.DELETE("/api/v1/trips/:tripid", middleware.Authenticate(trips.ArchiveTrip))
	router.POST("/api/v1/trips/:tripid/duplicate", middleware.Authenticate(trips.DuplicateTrip))

	router.POST("/api/v1/trips/:tripid/versions", middleware.Authenticate(trips.CreateVersion))
	router.PUT("/api/v1/versions/:versionid", middleware.Authenticate(trips.UpdateVersion))
	router.DELETE("/api/v1/versions/:versionid", middleware.Authenticate(trips.DeleteVersion))
	router.POST("/api/v1/versions/:versionid/primary", middleware.Authenticate(trips.SetPrimaryVersion))
	router.POST("/api/v1/versions/:versionid/approve", middleware.Authenticate(trips.ApproveVersion))
	router.POST("/api/v1/versions/:versionid/unapprove", middleware.Authenticate(trips.UnapproveVersion))
	router.POST("/api/v1/versions/:versionid/duplicate", middleware.Authenticate(trips.DuplicateVersion))
}

func AddSegmentRoutes(router *httprouter.Router) {
	router.POST("/api/v1/versions/:versionid/segments", middleware.Authenticate(segments.CreateSegment))
	router.GET("/api/v1/versions/:versionid/segments", middleware.Authenticate(segments.GetSegments))
	router.POST("/api/v1/versions/:versionid/segments/reorder", middleware.Authenticate(segments.ReorderSegments))
	router.GET("/api/v1/segments/:segmentid", middleware.Authenticate(segments.GetSegment))
	router.PUT("/api/v1/segments/:segmentid", middleware.Authenticate(segments.UpdateSegment))
	router.DELETE("/api/v1/segments/:segmentid", middleware.Authenticate(segments.DeleteSegment))
	router.POST("/api/v1/segments/:segmentid/choose", middleware.Authenticate(segments.SelectChoice))
	router.POST("/api/v1/segments/:segmentid/choose/clear", middleware.Authenticate(segments.ClearChoice))
	router.POST("/api/v1/segments/:segmentid/photos", middleware.Authenticate(segments.UploadSegmentPhoto))
	router.POST("/api/v1/segments/:segmentid/photos/remove", middleware.Authenticate(segments.RemoveSegmentPhoto))

	router.POST("/api/v1/segments/:segmentid/variants", middleware.Authenticate(segments.CreateVariant))
	router.GET("/api/v1/segments/:segmentid/variants", middleware.Authenticate(segments.GetVariants))
	router.POST("/api/v1/segments/:segmentid/variants/clear", middleware.Authenticate(segments.ClearVariantSelection))
	router.PUT("/api/v1/variants/:variantid", middleware.Authenticate(segments.UpdateVariant))
	router.DELETE("/api/v1/variants/:variantid", middleware.Authenticate(segments.DeleteVariant))
	router.POST("/api/v1/variants/:variantid/select", middleware.Authenticate(segments.SelectVariant))
}

func AddExportRoutes(router *httprouter.Router) {
	// versionid omitted serves the approved version, falling back to primary
	router.GET("/api/v1/trips/:tripid/calendar.ics", middleware.Authenticate(exports.DownloadICS))
	router.GET("/api/v1/trips/:tripid/document.pdf", middleware.Authenticate(exports.DownloadPDF))
	router.GET("/api/v1/trips/:tripid/versions/:versionid/calendar.ics", middleware.Authenticate(exports.DownloadICS))
	router.GET("/api/v1/trips/:tripid/versions/:versionid/document.pdf", middleware.Authenticate(exports.DownloadPDF))
}

func AddShareRoutes(router *httprouter.Router, rl *ratelim.Limiter) {
	router.POST("/api/v1/trips/:tripid/shares", middleware.Authenticate(share.CreateShare))
	router.GET("/api/v1/trips/:tripid/shares", middleware.Authenticate(share.GetShares))
	router.POST("/api/v1/shares/:token/revoke", middleware.Authenticate(share.RevokeShare))

	// client-facing, token is the only credential
	router.GET("/s/:token", rl.Limit(share.ViewShare))
	router.GET("/s/:token/calendar.ics", rl.Limit(share.ShareICS))
	router.GET("/s/:token/document.pdf", rl.Limit(share.SharePDF))
	router.POST("/s/:token/variants/:variantid/submit", rl.Limit(share.SubmitVariant))
	router.POST("/s/:token/variants/:variantid/withdraw", rl.Limit(share.WithdrawVariant))
	router.POST("/s/:token/approve", rl.Limit(trips.ApproveTripByShare))
}

func AddDocumentRoutes(router *httprouter.Router) {
	router.POST("/api/v1/documents", middleware.Authenticate(documents.UploadDocument))
	router.GET("/api/v1/documents", middleware.Authenticate(documents.GetDocuments))
	router.GET("/api/v1/documents/:documentid", middleware.Authenticate(documents.GetDocument))
	router.GET("/api/v1/documents/:documentid/download", middleware.Authenticate(documents.DownloadDocument))
	router.DELETE("/api/v1/documents/:documentid", middleware.Authenticate(documents.DeleteDocument))
}

func AddFlightRoutes(router *httprouter.Router) {
	router.POST("/api/v1/segments/:segmentid/track", middleware.Authenticate(flights.TrackFlight))
	router.GET("/api/v1/flights", middleware.Authenticate(flights.GetTrackedFlights))
	router.POST("/api/v1/flights/:trackid/untrack", middleware.Authenticate(flights.UntrackFlight))
	router.GET("/api/v1/flights/:trackid/status", middleware.Authenticate(flights.GetFlightStatus))
}

func AddSearchRoutes(router *httprouter.Router) {
	router.GET("/api/v1/search", middleware.Authenticate(search.SearchHandler))
}

func AddActivityRoutes(router *httprouter.Router) {
	router.GET("/api/v1/activity", middleware.Authenticate(activity.GetActivity))
}

func AddChatRoutes(router *httprouter.Router, hub *chat.Hub) {
	router.GET("/ws/trips/:tripid/chat", chat.ChatSocket(hub))
	router.GET("/api/v1/trips/:tripid/chat", middleware.Authenticate(chat.GetHistory))
}
