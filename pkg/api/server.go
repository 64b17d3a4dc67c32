// Rewind Core
// Copyright (c) 2026 The Rewind Launcher Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Rewind Core.
//
// Rewind Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Rewind Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Rewind Core.  If not, see <http://www.gnu.org/licenses/>.

// Package api serves the JSON-RPC 2.0 API used by the launcher UI over a
// local WebSocket.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/olahol/melody"
	"github.com/rewindlauncher/rewind-core/pkg/api/methods"
	"github.com/rewindlauncher/rewind-core/pkg/api/middleware"
	"github.com/rewindlauncher/rewind-core/pkg/api/models"
	"github.com/rewindlauncher/rewind-core/pkg/api/models/requests"
	"github.com/rewindlauncher/rewind-core/pkg/api/validation"
	"github.com/rewindlauncher/rewind-core/pkg/config"
	"github.com/rewindlauncher/rewind-core/pkg/platforms"
	"github.com/rs/zerolog/log"
)

const (
	// APIPath is where the WebSocket endpoint is mounted.
	APIPath         = "/api"
	shutdownTimeout = 5 * time.Second
)

var (
	JSONRPCErrorParseError = models.ErrorObject{
		Code:    -32700,
		Message: "Parse error",
	}
	JSONRPCErrorInvalidRequest = models.ErrorObject{
		Code:    -32600,
		Message: "Invalid Request",
	}
	JSONRPCErrorMethodNotFound = models.ErrorObject{
		Code:    -32601,
		Message: "Method not found",
	}
	JSONRPCErrorInvalidParams = models.ErrorObject{
		Code:    -32602,
		Message: "Invalid params",
	}
)

// JSONRPCServerErrorCode is used for handler failures; the message carries
// the error text.
const JSONRPCServerErrorCode = -32000

type handlerFunc func(requests.RequestEnv) (any, error)

var methodMap = map[string]handlerFunc{
	// versions
	models.MethodVersionsDetect: methods.HandleVersionsDetect,
	models.MethodVersionsAdd:    methods.HandleVersionsAdd,
	models.MethodVersions:       methods.HandleVersions,
	models.MethodVersionsStored: methods.HandleVersionsStored,
	models.MethodVersionsRemove: methods.HandleVersionsRemove,
	models.MethodBuilds:         methods.HandleBuilds,
	// game
	models.MethodGameLaunch:  methods.HandleGameLaunch,
	models.MethodGameRunning: methods.HandleGameRunning,
	models.MethodGameStop:    methods.HandleGameStop,
	// auth
	models.MethodAuthToken:      methods.HandleAuthToken,
	models.MethodAuthTokenClear: methods.HandleAuthTokenClear,
	models.MethodAuthDeepLink:   methods.HandleAuthDeepLink,
	// discord
	models.MethodDiscordActivity: methods.HandleDiscordActivity,
	models.MethodDiscordClear:    methods.HandleDiscordClear,
	// remote
	models.MethodSessions:     methods.HandleSessions,
	models.MethodShop:         methods.HandleShop,
	models.MethodEvents:       methods.HandleEvents,
	models.MethodServerStatus: methods.HandleServerStatus,
	models.MethodServerStats:  methods.HandleServerStats,
	models.MethodUpdateCheck:  methods.HandleUpdateCheck,
	// utils
	models.MethodVersion: methods.HandleVersion,
}

// Methods lists every registered method name.
func Methods() []string {
	names := make([]string, 0, len(methodMap))
	for k := range methodMap {
		names = append(names, k)
	}
	slices.Sort(names)
	return names
}

type Server struct {
	platform      platforms.Platform
	cfg           *config.Instance
	services      *requests.Services
	notifications chan models.Notification
	melody        *melody.Melody
	limiter       *middleware.IPRateLimiter
	http          *http.Server
	listener      net.Listener
	ctx           context.Context
	cancel        context.CancelFunc
	cleanupDone   <-chan struct{}
	wg            sync.WaitGroup
}

// Start listens on the configured API address and serves in the
// background. Notifications sent on ns are broadcast to every client.
func Start(
	pl platforms.Platform,
	cfg *config.Instance,
	services *requests.Services,
	ns chan models.Notification,
) (*Server, error) {
	ln, err := net.Listen("tcp", cfg.APIListen())
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", cfg.APIListen(), err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Server{
		platform:      pl,
		cfg:           cfg,
		services:      services,
		notifications: ns,
		melody:        melody.New(),
		limiter:       middleware.NewIPRateLimiter(nil),
		listener:      ln,
		ctx:           ctx,
		cancel:        cancel,
	}
	s.cleanupDone = s.limiter.StartCleanup(ctx)

	s.melody.Upgrader.CheckOrigin = func(r *http.Request) bool {
		return originAllowed(r.Header.Get("Origin"), cfg.AllowedOrigins())
	}
	s.melody.HandleMessage(middleware.WebSocketRateLimitHandler(s.limiter, s.handleWSMessage))

	s.http = &http.Server{
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.broadcastNotifications()
	}()
	go func() {
		defer s.wg.Done()
		log.Info().Str("addr", ln.Addr().String()).Msg("api server listening")
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("api server stopped")
		}
	}()

	return s, nil
}

func (s *Server) router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.NoCache)
	r.Use(middleware.HTTPRateLimitMiddleware(s.limiter))
	r.Use(cors.Handler(cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			return originAllowed(origin, s.cfg.AllowedOrigins())
		},
		AllowedMethods: []string{"GET"},
		AllowedHeaders: []string{"Accept"},
	}))

	r.Get(APIPath, func(w http.ResponseWriter, r *http.Request) {
		if err := s.melody.HandleRequest(w, r); err != nil {
			log.Error().Err(err).Msg("handling websocket request")
		}
	})

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return r
}

// Addr is the address the server is listening on.
func (s *Server) Addr() string {
	return s.listener.Addr().String()
}

// Shutdown closes every WebSocket session, stops the HTTP server and waits
// for the background goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	s.cancel()
	if err := s.melody.Close(); err != nil && !errors.Is(err, melody.ErrClosed) {
		log.Warn().Err(err).Msg("error closing websocket sessions")
	}

	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	err := s.http.Shutdown(ctx)

	s.wg.Wait()
	<-s.cleanupDone

	if err != nil {
		return fmt.Errorf("failed to shut down api server: %w", err)
	}
	return nil
}

// originAllowed accepts requests without an Origin (native clients),
// loopback and Tauri origins, and anything listed in the config.
func originAllowed(origin string, allowed []string) bool {
	if origin == "" {
		return true
	}
	if slices.Contains(allowed, origin) {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "tauri":
		return u.Hostname() == "localhost"
	case "http", "https":
		host := u.Hostname()
		if host == "localhost" || host == "tauri.localhost" {
			return true
		}
		ip := net.ParseIP(host)
		return ip != nil && ip.IsLoopback()
	default:
		return false
	}
}

func (s *Server) broadcastNotifications() {
	for {
		select {
		case <-s.ctx.Done():
			return
		case notif := <-s.notifications:
			data, err := json.Marshal(models.NotificationObject{
				JSONRPC: "2.0",
				Method:  notif.Method,
				Params:  notif.Params,
			})
			if err != nil {
				log.Error().Err(err).Msg("marshalling notification")
				continue
			}
			if err := s.melody.Broadcast(data); err != nil {
				log.Error().Err(err).Msg("broadcasting notification")
			}
		}
	}
}

func sendResponse(session *melody.Session, id json.RawMessage, result any) error {
	data, err := json.Marshal(models.ResponseObject{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
	if err != nil {
		return fmt.Errorf("error marshalling response: %w", err)
	}
	return session.Write(data)
}

func sendError(session *melody.Session, id json.RawMessage, errObj models.ErrorObject) error {
	log.Debug().Int("code", errObj.Code).Str("message", errObj.Message).Msg("sending error")

	if len(id) == 0 {
		id = json.RawMessage("null")
	}
	data, err := json.Marshal(models.ResponseErrorObject{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &errObj,
	})
	if err != nil {
		return fmt.Errorf("error marshalling error response: %w", err)
	}
	return session.Write(data)
}

// errorObject maps a handler error to its JSON-RPC error.
func errorObject(err error) models.ErrorObject {
	var ve *validation.Error
	if errors.As(err, &ve) ||
		errors.Is(err, validation.ErrMissingParams) ||
		errors.Is(err, validation.ErrInvalidParams) {
		return models.ErrorObject{
			Code:    JSONRPCErrorInvalidParams.Code,
			Message: JSONRPCErrorInvalidParams.Message + ": " + err.Error(),
		}
	}
	return models.ErrorObject{
		Code:    JSONRPCServerErrorCode,
		Message: err.Error(),
	}
}

func (s *Server) handleRequest(
	ctx context.Context,
	session *melody.Session,
	req models.RequestObject,
) (any, *models.ErrorObject) {
	fn, ok := methodMap[strings.ToLower(req.Method)]
	if !ok {
		log.Warn().Str("method", req.Method).Msg("unknown method")
		return nil, &JSONRPCErrorMethodNotFound
	}

	env := requests.RequestEnv{
		Context:       ctx,
		Platform:      s.platform,
		Config:        s.cfg,
		Services:      s.services,
		Notifications: s.notifications,
		Params:        req.Params,
		ID:            req.ID,
		IsLocal:       middleware.IsLoopbackAddr(session.Request.RemoteAddr),
	}

	resp, err := fn(env)
	if err != nil {
		log.Warn().Err(err).Str("method", req.Method).Msg("api method failed")
		errObj := errorObject(err)
		return nil, &errObj
	}
	return resp, nil
}

func (s *Server) handleWSMessage(session *melody.Session, msg []byte) {
	// heartbeat
	if bytes.Equal(msg, []byte("ping")) {
		if err := session.Write([]byte("pong")); err != nil {
			log.Error().Err(err).Msg("sending pong")
		}
		return
	}

	if !json.Valid(msg) {
		log.Warn().Msg("data not valid json")
		if err := sendError(session, nil, JSONRPCErrorParseError); err != nil {
			log.Error().Err(err).Msg("error sending error response")
		}
		return
	}

	var req models.RequestObject
	if err := json.Unmarshal(msg, &req); err != nil || req.JSONRPC != "2.0" || req.Method == "" {
		if err := sendError(session, req.ID, JSONRPCErrorInvalidRequest); err != nil {
			log.Error().Err(err).Msg("error sending error response")
		}
		return
	}

	if !req.HasID() {
		log.Debug().Str("method", req.Method).Msg("received notification, ignoring")
		return
	}

	log.Debug().Str("method", req.Method).RawJSON("id", req.ID).Msg("received request")

	ctx, cancel := context.WithTimeout(s.ctx, config.APIRequestTimeout)
	defer cancel()

	resp, errObj := s.handleRequest(ctx, session, req)
	if errObj != nil {
		if err := sendError(session, req.ID, *errObj); err != nil {
			log.Error().Err(err).Msg("error sending error response")
		}
		return
	}

	if err := sendResponse(session, req.ID, resp); err != nil {
		log.Error().Err(err).Msg("error sending response")
	}
}
