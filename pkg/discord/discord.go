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

// Package discord sets Rich Presence through the local Discord client's
// IPC socket.
package discord

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rewindlauncher/rewind-core/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
)

const (
	// MaxPipes is the number of discord-ipc-N endpoints probed on connect.
	MaxPipes     = 10
	ioTimeout    = 5 * time.Second
	protoVersion = 1
)

var (
	ErrNotConnected = errors.New("discord rpc not connected")
	ErrNoPipe       = errors.New("no discord ipc endpoint found")
	ErrRPC          = errors.New("discord rpc error")
)

// Dialer opens IPC endpoint n.
type Dialer func(ctx context.Context, n int) (net.Conn, error)

type Button struct {
	Label string `json:"label" validate:"required,max=32"`
	URL   string `json:"url" validate:"required,url"`
}

// Activity is the presence shown on the user's profile. Empty fields are
// left out.
type Activity struct {
	StartTimestamp *int64   `json:"start_timestamp,omitempty"`
	Details        string   `json:"details,omitempty" validate:"max=128"`
	State          string   `json:"state,omitempty" validate:"max=128"`
	LargeImage     string   `json:"large_image,omitempty"`
	LargeText      string   `json:"large_text,omitempty"`
	SmallImage     string   `json:"small_image,omitempty"`
	SmallText      string   `json:"small_text,omitempty"`
	Buttons        []Button `json:"buttons,omitempty" validate:"max=2,dive"`
}

type wireAssets struct {
	LargeImage string `json:"large_image,omitempty"`
	LargeText  string `json:"large_text,omitempty"`
	SmallImage string `json:"small_image,omitempty"`
	SmallText  string `json:"small_text,omitempty"`
}

type wireTimestamps struct {
	Start int64 `json:"start"`
}

type wireActivity struct {
	Assets     *wireAssets     `json:"assets,omitempty"`
	Timestamps *wireTimestamps `json:"timestamps,omitempty"`
	Details    string          `json:"details,omitempty"`
	State      string          `json:"state,omitempty"`
	Buttons    []Button        `json:"buttons,omitempty"`
}

// toWire maps the flat activity to the IPC shape. Assets are only sent
// with a large image, and small text only with a small image.
func (a *Activity) toWire() wireActivity {
	w := wireActivity{
		Details: a.Details,
		State:   a.State,
		Buttons: a.Buttons,
	}
	if a.LargeImage != "" {
		w.Assets = &wireAssets{LargeImage: a.LargeImage, LargeText: a.LargeText}
		if a.SmallImage != "" {
			w.Assets.SmallImage = a.SmallImage
			w.Assets.SmallText = a.SmallText
		}
	}
	if a.StartTimestamp != nil {
		w.Timestamps = &wireTimestamps{Start: *a.StartTimestamp}
	}
	return w
}

type command struct {
	Args  any    `json:"args"`
	Cmd   string `json:"cmd"`
	Nonce string `json:"nonce"`
}

type response struct {
	Data  json.RawMessage `json:"data"`
	Cmd   string          `json:"cmd"`
	Evt   string          `json:"evt"`
	Nonce string          `json:"nonce"`
}

type errorData struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type Client struct {
	conn     net.Conn
	dial     Dialer
	clientID string
	mu       syncutil.Mutex
}

func NewClient(clientID string) *Client {
	return &Client{clientID: clientID, dial: dialIPC}
}

// WithDialer replaces the IPC dialer. Intended for tests.
func (c *Client) WithDialer(d Dialer) *Client {
	c.dial = d
	return c
}

func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Connect probes discord-ipc-0 through discord-ipc-9 and performs the
// handshake on the first endpoint that accepts. An existing connection
// is closed first.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeLocked()

	var lastErr error
	for n := range MaxPipes {
		conn, err := c.dial(ctx, n)
		if err != nil {
			lastErr = err
			continue
		}
		if err := c.handshake(conn); err != nil {
			_ = conn.Close()
			return err
		}
		c.conn = conn
		log.Info().Int("pipe", n).Msg("connected to discord ipc")
		return nil
	}

	if lastErr != nil {
		return fmt.Errorf("%w: %w", ErrNoPipe, lastErr)
	}
	return ErrNoPipe
}

func (c *Client) handshake(conn net.Conn) error {
	if err := conn.SetDeadline(time.Now().Add(ioTimeout)); err != nil {
		return fmt.Errorf("failed to set ipc deadline: %w", err)
	}
	err := writeFrame(conn, opHandshake, map[string]any{
		"v":         protoVersion,
		"client_id": c.clientID,
	})
	if err != nil {
		return err
	}
	resp, err := readResponse(conn)
	if err != nil {
		return fmt.Errorf("discord handshake failed: %w", err)
	}
	if resp.Evt != "READY" {
		return fmt.Errorf("%w: unexpected handshake event %q", ErrRPC, resp.Evt)
	}
	return nil
}

// readResponse reads frames until a command frame arrives, answering
// pings on the way.
func readResponse(conn net.Conn) (response, error) {
	for {
		op, body, err := readFrame(conn)
		if err != nil {
			return response{}, err
		}
		switch op {
		case opPing:
			if err := writeFrame(conn, opPong, json.RawMessage(body)); err != nil {
				return response{}, err
			}
			continue
		case opClose:
			var ed errorData
			_ = json.Unmarshal(body, &ed)
			return response{}, fmt.Errorf("%w: closed by discord: %s (%d)", ErrRPC, ed.Message, ed.Code)
		case opFrame:
			var resp response
			if err := json.Unmarshal(body, &resp); err != nil {
				return response{}, fmt.Errorf("failed to decode ipc frame: %w", err)
			}
			if resp.Evt == "ERROR" {
				var ed errorData
				_ = json.Unmarshal(resp.Data, &ed)
				return resp, fmt.Errorf("%w: %s (%d)", ErrRPC, ed.Message, ed.Code)
			}
			return resp, nil
		default:
			log.Debug().Uint32("op", uint32(op)).Msg("ignoring ipc frame")
		}
	}
}

func (c *Client) send(cmd string, args any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn == nil {
		return ErrNotConnected
	}

	nonce := uuid.New().String()
	if err := c.conn.SetDeadline(time.Now().Add(ioTimeout)); err != nil {
		c.closeLocked()
		return fmt.Errorf("failed to set ipc deadline: %w", err)
	}
	if err := writeFrame(c.conn, opFrame, command{Cmd: cmd, Args: args, Nonce: nonce}); err != nil {
		c.closeLocked()
		return err
	}
	resp, err := readResponse(c.conn)
	if err != nil {
		if !errors.Is(err, ErrRPC) || resp.Cmd == "" {
			c.closeLocked()
		}
		return err
	}
	if resp.Nonce != "" && resp.Nonce != nonce {
		log.Debug().Str("want", nonce).Str("got", resp.Nonce).Msg("ipc nonce mismatch")
	}
	return nil
}

type activityArgs struct {
	Activity *wireActivity `json:"activity"`
	PID      int           `json:"pid"`
}

func (c *Client) SetActivity(a *Activity) error {
	w := a.toWire()
	return c.send("SET_ACTIVITY", activityArgs{PID: os.Getpid(), Activity: &w})
}

func (c *Client) ClearActivity() error {
	return c.send("SET_ACTIVITY", activityArgs{PID: os.Getpid()})
}

func (c *Client) closeLocked() {
	if c.conn == nil {
		return
	}
	_ = c.conn.SetWriteDeadline(time.Now().Add(time.Second))
	_ = writeFrame(c.conn, opClose, map[string]any{})
	if err := c.conn.Close(); err != nil {
		log.Debug().Err(err).Msg("error closing discord ipc")
	}
	c.conn = nil
}

// Close disconnects from Discord. Closing a disconnected client is a
// no-op.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
	return nil
}
