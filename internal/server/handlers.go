// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

package server

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/wneessen/city-weather/internal/backend"
	"github.com/wneessen/city-weather/internal/logger"
	"github.com/wneessen/city-weather/internal/service"
	"github.com/wneessen/city-weather/internal/widget"
)

// weatherQuery is the query string of the weather endpoint.
type weatherQuery struct {
	City string `validate:"required"`
}

// ErrorBody is the document sent for failed lookups.
type ErrorBody struct {
	Error string `json:"error"`
}

func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	if err := s.validate.Struct(weatherQuery{City: strings.TrimSpace(city)}); err != nil {
		s.writeError(w, http.StatusBadRequest, service.MsgCityRequired)
		return
	}

	report, err := s.service.Lookup(r.Context(), city)
	if err != nil {
		status, msg := service.ErrorResponse(err, city)
		if status >= http.StatusInternalServerError {
			s.logger.Error("weather lookup failed", logger.Err(err), slog.String("city", city),
				slog.String("request_id", RequestID(r.Context())))
		}
		s.writeError(w, status, msg)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// handleIndex serves the widget page. With a city parameter the widget runs in-process for
// that query and the page shows the resulting fields.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	city := query.Get("city")

	var state widget.DisplayState
	if query.Has("city") {
		wdgt, err := widget.New(backend.NewLocal(s.service.Lookup), nil, s.logger)
		if err != nil {
			s.logger.Error("failed to create widget", logger.Err(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		state = wdgt.Submit(r.Context(), city)
	}

	buf := bytes.NewBuffer(nil)
	if err := s.templates.RenderIndex(buf, city, state); err != nil {
		s.logger.Error("failed to render widget page", logger.Err(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		s.logger.Error("failed to write widget page", logger.Err(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.service.Health(r.Context())
	status := http.StatusOK
	if health.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, health)
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, ErrorBody{Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		s.logger.Error("failed to encode JSON response", logger.Err(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(body); err != nil {
		s.logger.Error("failed to write JSON response", logger.Err(err))
	}
}
