package api

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (a *API) handleBalance(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	balance, err := a.game.Balance(r.Context(), userID)
	if err != nil {
		log.Printf("api: balance lookup failed for %s: %v", userID, err)
		http.Error(w, "balance lookup failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user_id": userID,
		"balance": balance,
	})
}

type creditRequest struct {
	Amount int64  `json:"amount"`
	Reason string `json:"reason"`
}

// handleCredit is the manual reconciliation path for settlement credits
// that failed and were logged.
func (a *API) handleCredit(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["user_id"]

	var req creditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Amount <= 0 {
		http.Error(w, "amount must be a positive integer", http.StatusBadRequest)
		return
	}

	balance, err := a.game.Credit(r.Context(), userID, req.Amount)
	if err != nil {
		log.Printf("api: manual credit failed for %s: %v", userID, err)
		http.Error(w, "credit failed", http.StatusInternalServerError)
		return
	}
	log.Printf("api: manual credit user=%s amount=%d reason=%q", userID, req.Amount, req.Reason)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"user_id": userID,
		"balance": balance,
	})
}

func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"active_sessions": a.game.ActiveSessions(),
	})
}
