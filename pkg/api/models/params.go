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

package models

type PathParams struct {
	Path string `json:"path" validate:"required,installpath"`
}

type RemoveVersionParams struct {
	Path        string `json:"path" validate:"required,installpath"`
	DeleteFiles bool   `json:"deleteFiles"`
}

type LaunchParams struct {
	Path     string `json:"path" validate:"required,installpath"`
	Email    string `json:"email" validate:"required,max=256"`
	Password string `json:"password" validate:"required,max=256"`
}

type DeepLinkParams struct {
	URL string `json:"url" validate:"required,max=8192"`
}
