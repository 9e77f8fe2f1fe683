// Command dummycheck runs a stub verification backend that answers every
// check request with a fixed result. Useful for local development and for
// exercising the gateway's remote dispatch path end to end.
package main

import (
	"encoding/json"
	"errors"
	"flag"
	"log"
	"net/http"
	"time"
)

type checkRequest struct {
	Text  string `json:"text,omitempty"`
	Image string `json:"image,omitempty"`
}

type checkResponse struct {
	Result bool `json:"result"`
}

func main() {
	addr := flag.String("addr", ":9999", "listen address")
	result := flag.Bool("result", true, "fixed result to return for every request")
	delay := flag.Duration("delay", 0, "artificial delay before responding")
	flag.Parse()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/check", func(w http.ResponseWriter, r *http.Request) {
		var req checkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid body"}`, http.StatusBadRequest)
			return
		}
		if (req.Text == "") == (req.Image == "") {
			http.Error(w, `{"error":"exactly one of text or image required"}`, http.StatusBadRequest)
			return
		}

		if *delay > 0 {
			time.Sleep(*delay)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(checkResponse{Result: *result})
	})
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	srv := &http.Server{
		Addr:              *addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Printf("dummycheck listening on %s (result=%v, delay=%v)", *addr, *result, *delay)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}
