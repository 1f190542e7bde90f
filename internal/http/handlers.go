package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"moneta/internal/core"
	"moneta/internal/i18n"
	"moneta/internal/log"
)

type txRequest struct {
	Type     string `json:"type"`
	Amount   string `json:"amount"`
	Category string `json:"category"`
	Desc     string `json:"desc"`
	Date     string `json:"date"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// statusFromError maps domain sentinels to HTTP statuses: a bad field is
// the client's problem, a missing record is 404, everything else is ours.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrInvalidType),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrEmptyCategory),
		errors.Is(err, core.ErrUnknownCategory),
		errors.Is(err, core.ErrInvalidDate),
		errors.Is(err, core.ErrInvalidCurrency),
		errors.Is(err, core.ErrInvalidLanguage):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// resolveDate turns the request's date field into a calendar day. Entry
// forms offer "today" and "yesterday" shortcuts next to the explicit
// picker, so the API accepts all three; empty means today.
func (s *Server) resolveDate(raw string) (core.Date, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "today":
		return core.DateOf(s.clock()), nil
	case "yesterday":
		return core.DateOf(s.clock().AddDate(0, 0, -1)), nil
	}
	t, err := time.Parse(core.DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return core.Date{}, core.ErrInvalidDate
	}
	return core.DateOf(t), nil
}

// sanitize trims the description and strips control characters.
func sanitize(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

func (s *Server) lang() i18n.Lang {
	return i18n.Lang(s.ledger.Settings().Language)
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	lang := s.lang()
	today := core.DateOf(s.clock())
	key := homeKey(s.ledger.Revision(), today, lang)
	if v, ok := s.views.Get(key); ok {
		writeJSON(w, http.StatusOK, v)
		return
	}

	view := buildHome(s.ledger.Transactions(), today, s.ledger.Settings().Currency, lang)
	s.views.SetDefault(key, view)
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req txRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	date, err := s.resolveDate(req.Date)
	if err != nil {
		writeError(w, statusFromError(err), err.Error())
		return
	}

	draft := core.Transaction{
		Type:     core.TxType(strings.ToLower(strings.TrimSpace(req.Type))),
		Amount:   strings.TrimSpace(req.Amount),
		Category: strings.TrimSpace(req.Category),
		Desc:     sanitize(req.Desc),
		Date:     date,
	}
	tx, err := s.ledger.Add(r.Context(), draft)
	if err != nil {
		s.logger.WarnContext(r.Context(), "Transaction rejected",
			log.FieldOperation, log.OpAdd, log.FieldError, err)
		writeError(w, statusFromError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, viewTx(tx, s.lang()))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req txRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	// an edit must say which day the record belongs to; defaulting to
	// today here would silently move it
	if strings.TrimSpace(req.Date) == "" {
		writeError(w, http.StatusUnprocessableEntity, "date is required")
		return
	}
	date, err := s.resolveDate(req.Date)
	if err != nil {
		writeError(w, statusFromError(err), err.Error())
		return
	}

	patch := core.Patch{
		Amount:   strings.TrimSpace(req.Amount),
		Category: strings.TrimSpace(req.Category),
		Desc:     sanitize(req.Desc),
		Date:     date,
	}
	tx, err := s.ledger.Update(r.Context(), id, patch)
	if err != nil {
		writeError(w, statusFromError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, viewTx(tx, s.lang()))
}

func (s *Server) handleRemoveTransaction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.ledger.Remove(r.Context(), id); err != nil {
		writeError(w, statusFromError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleOperations(w http.ResponseWriter, r *http.Request) {
	typ := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("type")))
	if typ == "" {
		typ = core.FilterAll
	}
	switch typ {
	case core.FilterAll, string(core.Income), string(core.Expense):
	default:
		writeError(w, http.StatusUnprocessableEntity, "type must be all, income or expense")
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	lang := s.lang()
	key := operationsKey(s.ledger.Revision(), typ, query, lang)
	if v, ok := s.views.Get(key); ok {
		writeJSON(w, http.StatusOK, v)
		return
	}

	view := buildOperations(s.ledger.Transactions(), typ, query, lang)
	s.views.SetDefault(key, view)
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	now := s.clock()
	year := now.Year()
	month := int(now.Month())
	typ := core.Expense

	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "year must be a number")
			return
		}
		year = y
	}
	if v := strings.TrimSpace(q.Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil || m < 1 || m > 12 {
			writeError(w, http.StatusUnprocessableEntity, "month must be 1-12")
			return
		}
		month = m
	}
	if v := strings.ToLower(strings.TrimSpace(q.Get("type"))); v != "" {
		typ = core.TxType(v)
		if !typ.Valid() {
			writeError(w, http.StatusUnprocessableEntity, "type must be income or expense")
			return
		}
	}

	lang := s.lang()
	key := statsKey(s.ledger.Revision(), year, month, typ, lang)
	if v, ok := s.views.Get(key); ok {
		writeJSON(w, http.StatusOK, v)
		return
	}

	view := buildStats(s.ledger.Transactions(), year, month, typ, lang)
	s.views.SetDefault(key, view)
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ledger.Settings())
}

func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var req core.Settings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	if err := s.ledger.SetSettings(r.Context(), req); err != nil {
		writeError(w, statusFromError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.ledger.Settings())
}
