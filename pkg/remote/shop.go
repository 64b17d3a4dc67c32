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
	"strings"

	"github.com/rewindlauncher/rewind-core/pkg/config"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

const (
	SectionFeatured      = "Featured"
	SectionFeaturedItems = "Featured Items"
	SectionDailyItems    = "Daily Items"

	iconBaseURL = "https://fortnite-api.com/images/cosmetics/br/"
)

// Storefronts lists the catalog storefronts read by FetchShop, in order.
var Storefronts = []string{"BRDailyStorefront", "BRWeeklyStorefront"}

type ShopItem struct {
	CosmeticID   string `json:"cosmeticId"`
	Name         string `json:"name"`
	FeaturedIcon string `json:"featuredIcon"`
	Icon         string `json:"icon"`
	Rarity       string `json:"rarity"`
	ID           int    `json:"id"`
	Price        int    `json:"price"`
}

type Shop struct {
	CustomSections map[string][]ShopItem `json:"custom_sections"`
	Expiration     *string               `json:"expiration"`
	Featured       []ShopItem            `json:"featured"`
	Daily          []ShopItem            `json:"daily"`
}

// Cosmetic is the display data of one cosmetic item.
type Cosmetic struct {
	Rarity string
	Name   string
}

type CosmeticLookup interface {
	LookupCosmetic(ctx context.Context, id string) (Cosmetic, error)
}

// LookupCosmetic resolves an item id through the public cosmetics API.
// Missing fields fall back to "unknown" and the id.
func (c *Client) LookupCosmetic(ctx context.Context, id string) (Cosmetic, error) {
	body, err := c.http.Get(ctx, c.endpoints.Cosmetic+id)
	if err != nil {
		return Cosmetic{}, fmt.Errorf("failed to fetch cosmetic %s: %w", id, err)
	}
	if !gjson.ValidBytes(body) {
		return Cosmetic{}, fmt.Errorf("%w: cosmetic %s", ErrMalformed, id)
	}

	res := gjson.GetManyBytes(body, "data.rarity.value", "data.name")
	cosmetic := Cosmetic{Rarity: "unknown", Name: id}
	if res[0].Type == gjson.String {
		cosmetic.Rarity = res[0].String()
	}
	if res[1].Type == gjson.String {
		cosmetic.Name = res[1].String()
	}
	return cosmetic, nil
}

func isFeatured(section string) bool {
	return section == SectionFeatured || section == SectionFeaturedItems
}

// OrganizeShop sorts the catalog entries of the daily and weekly
// storefronts into featured, custom and daily sections. Entries without
// an item grant, a price or a well formed template id are skipped. Each
// section numbers its items from 1 in catalog order.
func OrganizeShop(ctx context.Context, catalog []byte, lookup CosmeticLookup) (Shop, error) {
	if !gjson.ValidBytes(catalog) {
		return Shop{}, fmt.Errorf("%w: catalog is not valid JSON", ErrMalformed)
	}
	root := gjson.ParseBytes(catalog)

	storefronts := root.Get("storefronts")
	if !storefronts.Exists() {
		return Shop{}, fmt.Errorf("%w: no storefronts found", ErrMalformed)
	}
	if !storefronts.IsArray() {
		return Shop{}, fmt.Errorf("%w: storefronts is not an array", ErrMalformed)
	}

	shop := Shop{
		Featured:       []ShopItem{},
		Daily:          []ShopItem{},
		CustomSections: map[string][]ShopItem{},
	}
	if exp := root.Get("expiration"); exp.Type == gjson.String {
		s := exp.String()
		shop.Expiration = &s
	}

	customCounters := map[string]int{}
	if sections := root.Get("custom_sections"); sections.IsArray() {
		for _, sec := range sections.Array() {
			if sec.Type != gjson.String {
				continue
			}
			name := sec.String()
			if name == SectionFeaturedItems || name == SectionDailyItems {
				continue
			}
			customCounters[name] = 1
			shop.CustomSections[name] = []ShopItem{}
		}
	}

	featuredCounter := 1
	dailyCounter := 1

	for _, name := range Storefronts {
		var store gjson.Result
		for _, sf := range storefronts.Array() {
			if n := sf.Get("name"); n.Type == gjson.String && n.String() == name {
				store = sf
				break
			}
		}
		entries := store.Get("catalogEntries")
		if !entries.IsArray() {
			continue
		}

		for _, entry := range entries.Array() {
			grants := entry.Get("itemGrants")
			prices := entry.Get("prices")
			if !grants.IsArray() || len(grants.Array()) == 0 ||
				!prices.IsArray() || len(prices.Array()) == 0 {
				continue
			}

			templateID := grants.Get("0.templateId")
			if templateID.Type != gjson.String {
				continue
			}
			parts := strings.Split(templateID.String(), ":")
			if len(parts) < 2 {
				continue
			}
			cosmeticID := parts[1]

			finalPrice := prices.Get("0.finalPrice")
			if !finalPrice.Exists() {
				continue
			}
			price := 0
			if finalPrice.Type == gjson.Number && finalPrice.Num == float64(finalPrice.Int()) {
				price = int(finalPrice.Int())
			}

			cosmetic, err := lookup.LookupCosmetic(ctx, cosmeticID)
			if err != nil {
				log.Debug().Err(err).Str("id", cosmeticID).Msg("cosmetic lookup failed")
				cosmetic = Cosmetic{Rarity: "unknown", Name: cosmeticID}
			}

			section := ""
			if s := entry.Get("meta.SectionId"); s.Type == gjson.String {
				section = s.String()
			}
			_, isCustom := customCounters[section]
			isCustom = isCustom && section != SectionFeatured

			item := ShopItem{
				CosmeticID:   cosmeticID,
				Name:         cosmetic.Name,
				Price:        price,
				FeaturedIcon: iconBaseURL + cosmeticID + "/featured.png",
				Icon:         iconBaseURL + cosmeticID + "/icon.png",
				Rarity:       cosmetic.Rarity,
			}

			switch {
			case isFeatured(section):
				item.ID = featuredCounter
				featuredCounter++
				shop.Featured = append(shop.Featured, item)
			case isCustom:
				item.ID = customCounters[section]
				customCounters[section]++
				shop.CustomSections[section] = append(shop.CustomSections[section], item)
			default:
				item.ID = dailyCounter
				dailyCounter++
				shop.Daily = append(shop.Daily, item)
			}
		}
	}

	return shop, nil
}

// FetchShop downloads the catalog, organizes it and caches the result to
// the temp dir.
func (c *Client) FetchShop(ctx context.Context) (Shop, error) {
	body, err := c.http.Get(ctx, c.endpoints.Catalog)
	if err != nil {
		return Shop{}, fmt.Errorf("failed to fetch catalog: %w", err)
	}

	shop, err := OrganizeShop(ctx, body, c)
	if err != nil {
		return Shop{}, err
	}

	c.writeCache(config.ShopCacheFile, shop)
	return shop, nil
}
