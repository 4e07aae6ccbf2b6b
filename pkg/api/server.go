// Playtime Core
// Copyright (c) 2026 The Playtime Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Playtime Core.
//
// Playtime Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Playtime Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Playtime Core.  If not, see <http://www.gnu.org/licenses/>.

// Package api exposes the JSON-RPC 2.0 interface over websocket. Every
// method is handled through the method map; notifications are broadcast to
// all connected sessions.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/PlaytimeProject/playtime-core/pkg/api/methods"
	"github.com/PlaytimeProject/playtime-core/pkg/api/models"
	"github.com/PlaytimeProject/playtime-core/pkg/api/models/requests"
	"github.com/PlaytimeProject/playtime-core/pkg/api/validation"
	"github.com/PlaytimeProject/playtime-core/pkg/config"
	"github.com/PlaytimeProject/playtime-core/pkg/database"
	"github.com/PlaytimeProject/playtime-core/pkg/service/playtime"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/olahol/melody"
	"github.com/rs/zerolog/log"
)

// maxRequestBody caps POST request bodies at 1 MiB.
const maxRequestBody = 1 << 20

var JSONRPCErrorParseError = models.ErrorObject{
	Code:    -32700,
	Message: "Parse error",
}
var JSONRPCErrorInvalidRequest = models.ErrorObject{
	Code:    -32600,
	Message: "Invalid Request",
}
var JSONRPCErrorMethodNotFound = models.ErrorObject{
	Code:    -32601,
	Message: "Method not found",
}
var JSONRPCErrorInvalidParams = models.ErrorObject{
	Code:    -32602,
	Message: "Invalid params",
}
var JSONRPCErrorInvalidRange = models.ErrorObject{
	Code:    -32001,
	Message: "Invalid range",
}
var JSONRPCErrorInvalidIdentity = models.ErrorObject{
	Code:    -32002,
	Message: "Invalid identity",
}
var JSONRPCErrorUnknownGame = models.ErrorObject{
	Code:    -32003,
	Message: "Unknown game",
}
var JSONRPCErrorPersistenceFailure = models.ErrorObject{
	Code:    -32004,
	Message: "Persistence failure",
}

var methodMap = map[string]func(requests.RequestEnv) (any, error){
	// playtime
	models.MethodPlaytimeAdd:        methods.HandleAddPlaytime,
	models.MethodPlaytimeCorrection: methods.HandleCorrection,
	// games
	models.MethodGamesDictionary: methods.HandleGamesDictionary,
	models.MethodGamesPurge:      methods.HandlePurgeGame,
	// checksums
	models.MethodChecksums:           methods.HandleChecksums,
	models.MethodChecksumsSave:       methods.HandleSaveChecksum,
	models.MethodChecksumsSaveBulk:   methods.HandleSaveChecksumBulk,
	models.MethodChecksumsRemove:     methods.HandleRemoveChecksum,
	models.MethodChecksumsRemoveGame: methods.HandleRemoveGameChecksums,
	models.MethodChecksumsReset:      methods.HandleResetChecksums,
	models.MethodChecksumsLink:       methods.HandleLinkChecksum,
	// stats
	models.MethodStatsDaily:        methods.HandleDailyStats,
	models.MethodStatsRecent:       methods.HandleRecentStats,
	models.MethodStatsOverall:      methods.HandleOverallStats,
	models.MethodStatsOverallShort: methods.HandleOverallStatsShort,
	models.MethodStatsGame:         methods.HandleGameStats,
	// utils
	models.MethodVersion: methods.HandleVersion,
}

// errorObjectFor maps a handler error to its JSON-RPC error object. Domain
// errors carry dedicated codes; anything unrecognized from the storage layer
// is reported as a persistence failure.
func errorObjectFor(err error) models.ErrorObject {
	var validationErr *validation.Error
	switch {
	case errors.Is(err, validation.ErrMissingParams),
		errors.Is(err, validation.ErrInvalidParams),
		errors.As(err, &validationErr):
		obj := JSONRPCErrorInvalidParams
		obj.Message = err.Error()
		return obj
	case errors.Is(err, database.ErrInvalidRange):
		obj := JSONRPCErrorInvalidRange
		obj.Message = err.Error()
		return obj
	case errors.Is(err, database.ErrInvalidIdentity):
		obj := JSONRPCErrorInvalidIdentity
		obj.Message = err.Error()
		return obj
	case errors.Is(err, database.ErrUnknownGame):
		obj := JSONRPCErrorUnknownGame
		obj.Message = err.Error()
		return obj
	default:
		return JSONRPCErrorPersistenceFailure
	}
}

func maybeUUID(req *models.RequestObject) uuid.UUID {
	if req.ID == nil {
		return uuid.Nil
	}
	return *req.ID
}

func handleRequest(env requests.RequestEnv, req models.RequestObject) (any, error) {
	log.Debug().Str("method", req.Method).Msg("received request")

	fn, ok := methodMap[strings.ToLower(req.Method)]
	if !ok {
		return nil, fmt.Errorf("unknown method: %s", req.Method)
	}

	env.ID = maybeUUID(&req)
	env.Params = req.Params

	return fn(env)
}

func sendResponse(session *melody.Session, id uuid.UUID, result any) error {
	log.Debug().Interface("result", result).Msg("sending response")

	resp := models.ResponseObject{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("error marshalling response: %w", err)
	}

	if err := session.Write(data); err != nil {
		return fmt.Errorf("error writing response: %w", err)
	}
	return nil
}

func sendError(session *melody.Session, id uuid.UUID, errObj models.ErrorObject) error {
	log.Debug().Int("code", errObj.Code).Str("message", errObj.Message).Msg("sending error")

	resp := models.ResponseErrorObject{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &errObj,
	}

	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("error marshalling error response: %w", err)
	}

	if err := session.Write(data); err != nil {
		return fmt.Errorf("error writing error response: %w", err)
	}
	return nil
}

func broadcastNotifications(
	ctx context.Context,
	session *melody.Melody,
	notifications <-chan models.Notification,
) {
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("stopping notification broadcast via context cancellation")
			return
		case notif := <-notifications:
			req := models.RequestObject{
				JSONRPC: "2.0",
				Method:  notif.Method,
				Params:  notif.Params,
			}

			data, err := json.Marshal(req)
			if err != nil {
				log.Error().Err(err).Msg("marshalling notification request")
				continue
			}

			if err := session.Broadcast(data); err != nil {
				log.Error().Err(err).Msg("broadcasting notification")
			}
		}
	}
}

func handleWSMessage(
	cfg *config.Instance,
	pt *playtime.Service,
) func(session *melody.Session, msg []byte) {
	return func(session *melody.Session, msg []byte) {
		// ping command for heartbeat operation
		if bytes.Equal(msg, []byte("ping")) {
			if err := session.Write([]byte("pong")); err != nil {
				log.Error().Err(err).Msg("sending pong")
			}
			return
		}

		if !json.Valid(msg) {
			log.Error().Msg("data not valid json")
			if err := sendError(session, uuid.Nil, JSONRPCErrorParseError); err != nil {
				log.Error().Err(err).Msg("error sending error response")
			}
			return
		}

		var req models.RequestObject
		err := json.Unmarshal(msg, &req)
		if err != nil || req.Method == "" {
			log.Error().Err(err).Msg("message is not a request")
			if sendErr := sendError(session, uuid.Nil, JSONRPCErrorInvalidRequest); sendErr != nil {
				log.Error().Err(sendErr).Msg("error sending error response")
			}
			return
		}

		if req.JSONRPC != "2.0" {
			log.Error().Str("jsonrpc", req.JSONRPC).Msg("unsupported payload version")
			if sendErr := sendError(session, maybeUUID(&req), JSONRPCErrorInvalidRequest); sendErr != nil {
				log.Error().Err(sendErr).Msg("error sending error response")
			}
			return
		}

		if req.ID == nil {
			// request is notification
			log.Info().Str("method", req.Method).Msg("received notification, ignoring")
			return
		}

		if _, ok := methodMap[strings.ToLower(req.Method)]; !ok {
			if sendErr := sendError(session, *req.ID, JSONRPCErrorMethodNotFound); sendErr != nil {
				log.Error().Err(sendErr).Msg("error sending error response")
			}
			return
		}

		resp, err := handleRequest(requests.RequestEnv{
			Config:   cfg,
			Playtime: pt,
		}, req)
		if err != nil {
			log.Error().Err(err).Str("method", req.Method).Msg("handler error")
			if sendErr := sendError(session, *req.ID, errorObjectFor(err)); sendErr != nil {
				log.Error().Err(sendErr).Msg("error sending error response")
			}
			return
		}

		if err := sendResponse(session, *req.ID, resp); err != nil {
			log.Error().Err(err).Msg("error sending response")
		}
	}
}

// handlePostRequest serves single JSON-RPC requests over plain HTTP POST
// for clients without a websocket. Responses always carry HTTP 200; faults
// are reported in the JSON-RPC error object.
func handlePostRequest(
	cfg *config.Instance,
	pt *playtime.Service,
) http.HandlerFunc {
	writeObject := func(w http.ResponseWriter, obj any) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(obj); err != nil {
			log.Error().Err(err).Msg("error writing post response")
		}
	}
	writeError := func(w http.ResponseWriter, id uuid.UUID, errObj models.ErrorObject) {
		writeObject(w, models.ResponseErrorObject{
			JSONRPC: "2.0",
			ID:      id,
			Error:   &errObj,
		})
	}

	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
		if err != nil {
			writeError(w, uuid.Nil, JSONRPCErrorInvalidRequest)
			return
		}

		if !json.Valid(body) {
			writeError(w, uuid.Nil, JSONRPCErrorParseError)
			return
		}

		var req models.RequestObject
		if err := json.Unmarshal(body, &req); err != nil || req.Method == "" {
			writeError(w, uuid.Nil, JSONRPCErrorInvalidRequest)
			return
		}

		if req.JSONRPC != "2.0" || req.ID == nil {
			writeError(w, maybeUUID(&req), JSONRPCErrorInvalidRequest)
			return
		}

		if _, ok := methodMap[strings.ToLower(req.Method)]; !ok {
			writeError(w, *req.ID, JSONRPCErrorMethodNotFound)
			return
		}

		resp, err := handleRequest(requests.RequestEnv{
			Config:   cfg,
			Playtime: pt,
		}, req)
		if err != nil {
			log.Error().Err(err).Str("method", req.Method).Msg("handler error")
			writeError(w, *req.ID, errorObjectFor(err))
			return
		}

		writeObject(w, models.ResponseObject{
			JSONRPC: "2.0",
			ID:      *req.ID,
			Result:  resp,
		})
	}
}

func Start(
	ctx context.Context,
	cfg *config.Instance,
	pt *playtime.Service,
	notifications <-chan models.Notification,
) {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.NoCache)
	r.Use(middleware.Timeout(config.APIRequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{},
	}))

	session := melody.New()
	session.Upgrader.CheckOrigin = func(_ *http.Request) bool { return true }
	go broadcastNotifications(ctx, session, notifications)

	r.Get("/api", func(w http.ResponseWriter, r *http.Request) {
		if err := session.HandleRequest(w, r); err != nil {
			log.Error().Err(err).Msg("handling websocket request: latest")
		}
	})

	r.Get("/api/v1", func(w http.ResponseWriter, r *http.Request) {
		if err := session.HandleRequest(w, r); err != nil {
			log.Error().Err(err).Msg("handling websocket request: v1")
		}
	})

	session.HandleMessage(handleWSMessage(cfg, pt))

	r.Post("/api", handlePostRequest(cfg, pt))
	r.Post("/api/v1", handlePostRequest(cfg, pt))

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.APIPort()),
		Handler:           r,
		ReadHeaderTimeout: config.APIRequestTimeout,
	}

	go func() {
		<-ctx.Done()
		if err := srv.Close(); err != nil {
			log.Error().Err(err).Msg("closing http server")
		}
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("error starting http server")
	}
}
