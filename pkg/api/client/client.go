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

// Package client talks to a running Rewind Core service over its local
// WebSocket API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rewindlauncher/rewind-core/pkg/api/models"
	"github.com/rewindlauncher/rewind-core/pkg/config"
	"github.com/rs/zerolog/log"
)

var (
	ErrRequestTimeout   = errors.New("request timed out")
	ErrInvalidParams    = errors.New("invalid params")
	ErrRequestCancelled = errors.New("request cancelled")
	ErrRPC              = errors.New("api error")
)

const APIPath = "/api"

func localURL(cfg *config.Instance) string {
	u := url.URL{
		Scheme: "ws",
		Host:   "localhost:" + strconv.Itoa(cfg.APIPort()),
		Path:   APIPath,
	}
	return u.String()
}

type message struct {
	Result json.RawMessage     `json:"result"`
	Error  *models.ErrorObject `json:"error"`
	Params json.RawMessage     `json:"params"`
	ID     json.RawMessage     `json:"id"`
	Method string              `json:"method"`
}

func dial(ctx context.Context, cfg *config.Instance) (*websocket.Conn, error) {
	c, resp, err := websocket.DefaultDialer.DialContext(ctx, localURL(cfg), nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to api: %w", err)
	}
	return c, nil
}

// waitFor reads messages until match accepts one, the timeout elapses or
// ctx is done. A zero timeout uses the API request timeout, a negative one
// waits indefinitely.
func waitFor(
	ctx context.Context,
	c *websocket.Conn,
	timeout time.Duration,
	match func(message) bool,
) (*message, error) {
	done := make(chan struct{})
	var found *message

	go func() {
		defer close(done)
		for {
			_, data, err := c.ReadMessage()
			if err != nil {
				log.Debug().Err(err).Msg("websocket read ended")
				return
			}
			var m message
			if err := json.Unmarshal(data, &m); err != nil {
				continue
			}
			if match(m) {
				found = &m
				return
			}
		}
	}()

	var timerChan <-chan time.Time
	switch {
	case timeout == 0:
		timer := time.NewTimer(config.APIRequestTimeout)
		defer timer.Stop()
		timerChan = timer.C
	case timeout > 0:
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timerChan = timer.C
	}

	select {
	case <-done:
	case <-timerChan:
		_ = c.Close()
		<-done
		return nil, ErrRequestTimeout
	case <-ctx.Done():
		_ = c.Close()
		<-done
		return nil, ErrRequestCancelled
	}

	if found == nil {
		return nil, ErrRequestTimeout
	}
	return found, nil
}

// LocalClient sends a single method with params to the local running API
// service and returns the raw JSON result.
func LocalClient(
	ctx context.Context,
	cfg *config.Instance,
	method string,
	params string,
) (string, error) {
	id, err := json.Marshal(uuid.New().String())
	if err != nil {
		return "", err
	}

	req := models.RequestObject{
		JSONRPC: "2.0",
		ID:      id,
		Method:  method,
	}
	if params != "" {
		if !json.Valid([]byte(params)) {
			return "", ErrInvalidParams
		}
		req.Params = json.RawMessage(params)
	}

	c, err := dial(ctx, cfg)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Debug().Err(err).Msg("error closing websocket")
		}
	}()

	if err := c.WriteJSON(req); err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}

	resp, err := waitFor(ctx, c, 0, func(m message) bool {
		return m.Method == "" && bytes.Equal(m.ID, id)
	})
	if err != nil {
		return "", err
	}

	if resp.Error != nil {
		return "", fmt.Errorf("%w: %s (%d)", ErrRPC, resp.Error.Message, resp.Error.Code)
	}
	return string(resp.Result), nil
}

// WaitNotification blocks until the service broadcasts a notification with
// the given method and returns its params.
func WaitNotification(
	ctx context.Context,
	timeout time.Duration,
	cfg *config.Instance,
	method string,
) (string, error) {
	c, err := dial(ctx, cfg)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := c.Close(); err != nil {
			log.Debug().Err(err).Msg("error closing websocket")
		}
	}()

	n, err := waitFor(ctx, c, timeout, func(m message) bool {
		return len(m.ID) == 0 && m.Method == method
	})
	if err != nil {
		return "", err
	}
	return string(n.Params), nil
}
