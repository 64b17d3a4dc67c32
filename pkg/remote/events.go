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

package remote

import (
	"context"
	"fmt"
)

type Event struct {
	AudioURL          *string `json:"audio_url"`
	ButtonIcon        *string `json:"ButtonIco"`
	IconColor         *string `json:"IcoColor"`
	Name              string  `json:"name"`
	CardName          string  `json:"card_name"`
	Thumbnail         string  `json:"thumbnail"`
	EventBackground   string  `json:"event_background"`
	EventDescription  string  `json:"event_description"`
	ButtonText        string  `json:"button_text"`
	ButtonRedirectURL string  `json:"button_redirect_url"`
	ButtonColor       string  `json:"button_color"`
	ButtonTextColor   string  `json:"button_text_color"`
	FrameText         string  `json:"frame_text"`
	ID                int     `json:"id"`
	Active            bool    `json:"active"`
}

func (c *Client) FetchEvents(ctx context.Context) ([]Event, error) {
	var events []Event
	if err := c.http.GetJSON(ctx, c.endpoints.Events, &events); err != nil {
		return nil, fmt.Errorf("failed to fetch events: %w", err)
	}
	if events == nil {
		events = []Event{}
	}
	return events, nil
}
