package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerIngestRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/ingest/summoner", handler.IngestSummoner)
	mux.HandleFunc("POST /v1/ingest/summoners/batch", handler.IngestBatch)
}

func registerSummonerRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/summoners", handler.ListSummoners)
	mux.HandleFunc("GET /v1/summoners/{identityKey}", handler.GetSummoner)
	mux.HandleFunc("GET /v1/summoners/{identityKey}/matches", handler.ListSummonerMatches)
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/admin/duplicates", handler.ListDuplicates)
	mux.HandleFunc("POST /v1/admin/merge", handler.RunMerge)
}
