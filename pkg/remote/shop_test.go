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
	"errors"
	"path/filepath"
	"testing"

	"github.com/rewindlauncher/rewind-core/pkg/config"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLookup map[string]Cosmetic

func (f fakeLookup) LookupCosmetic(_ context.Context, id string) (Cosmetic, error) {
	c, ok := f[id]
	if !ok {
		return Cosmetic{}, errors.New("not found")
	}
	return c, nil
}

const testCatalog = `{
	"expiration": "2026-10-18T00:00:00.000Z",
	"custom_sections": ["Featured Items", "Daily Items", "Spooky", 7],
	"storefronts": [
		{"name": "BRSeasonStorefront", "catalogEntries": [
			{"itemGrants":[{"templateId":"AthenaCharacter:cid_ignored"}],"prices":[{"finalPrice":1}]}
		]},
		{"name": "BRWeeklyStorefront", "catalogEntries": [
			{"itemGrants":[{"templateId":"AthenaCharacter:cid_001"}],"prices":[{"finalPrice":1500}],"meta":{"SectionId":"Featured"}},
			{"itemGrants":[{"templateId":"AthenaPickaxe:pickaxe_001"}],"prices":[{"finalPrice":800}],"meta":{"SectionId":"Featured Items"}},
			{"itemGrants":[{"templateId":"AthenaDance:eid_spooky"}],"prices":[{"finalPrice":500}],"meta":{"SectionId":"Spooky"}}
		]},
		{"name": "BRDailyStorefront", "catalogEntries": [
			{"itemGrants":[{"templateId":"AthenaGlider:glider_001"}],"prices":[{"finalPrice":1200}]},
			{"itemGrants":[{"templateId":"AthenaDance:eid_002"}],"prices":[{"finalPrice":"free"}],"meta":{"SectionId":"Daily Items"}},
			{"itemGrants":[{"templateId":"AthenaDance:eid_003"}],"prices":[{"finalPrice":200}],"meta":{"SectionId":"Unlisted"}},
			{"itemGrants":[],"prices":[{"finalPrice":200}]},
			{"itemGrants":[{"templateId":"NoColon"}],"prices":[{"finalPrice":200}]},
			{"itemGrants":[{"templateId":"AthenaDance:eid_noprice"}],"prices":[]},
			{"itemGrants":[{"templateId":"AthenaDance:eid_nofinal"}],"prices":[{"basePrice":5}]}
		]}
	]
}`

func TestOrganizeShop(t *testing.T) {
	t.Parallel()

	lookup := fakeLookup{
		"cid_001":     {Rarity: "legendary", Name: "Raven"},
		"pickaxe_001": {Rarity: "rare", Name: "Axe"},
		"glider_001":  {Rarity: "uncommon", Name: "Glider"},
	}

	shop, err := OrganizeShop(context.Background(), []byte(testCatalog), lookup)
	require.NoError(t, err)

	require.NotNil(t, shop.Expiration)
	assert.Equal(t, "2026-10-18T00:00:00.000Z", *shop.Expiration)

	// daily storefront is read before weekly
	require.Len(t, shop.Daily, 3)
	assert.Equal(t, ShopItem{
		ID:           1,
		CosmeticID:   "glider_001",
		Name:         "Glider",
		Price:        1200,
		FeaturedIcon: "https://fortnite-api.com/images/cosmetics/br/glider_001/featured.png",
		Icon:         "https://fortnite-api.com/images/cosmetics/br/glider_001/icon.png",
		Rarity:       "uncommon",
	}, shop.Daily[0])
	assert.Equal(t, 2, shop.Daily[1].ID)
	assert.Equal(t, 0, shop.Daily[1].Price)
	assert.Equal(t, "unknown", shop.Daily[1].Rarity)
	assert.Equal(t, "eid_002", shop.Daily[1].Name)
	assert.Equal(t, "eid_003", shop.Daily[2].CosmeticID)
	assert.Equal(t, 3, shop.Daily[2].ID)

	require.Len(t, shop.Featured, 2)
	assert.Equal(t, "cid_001", shop.Featured[0].CosmeticID)
	assert.Equal(t, 1, shop.Featured[0].ID)
	assert.Equal(t, "pickaxe_001", shop.Featured[1].CosmeticID)
	assert.Equal(t, 2, shop.Featured[1].ID)

	assert.Equal(t, []string{"Spooky"}, keys(shop.CustomSections))
	require.Len(t, shop.CustomSections["Spooky"], 1)
	assert.Equal(t, 1, shop.CustomSections["Spooky"][0].ID)
	assert.Equal(t, "eid_spooky", shop.CustomSections["Spooky"][0].CosmeticID)
}

func keys(m map[string][]ShopItem) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestOrganizeShop_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		catalog string
	}{
		{name: "invalid json", catalog: `{"storefronts":`},
		{name: "missing storefronts", catalog: `{"expiration":"x"}`},
		{name: "storefronts not array", catalog: `{"storefronts":{"name":"BRDailyStorefront"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := OrganizeShop(context.Background(), []byte(tt.catalog), fakeLookup{})
			require.ErrorIs(t, err, ErrMalformed)
		})
	}
}

func TestOrganizeShop_EmptyStorefronts(t *testing.T) {
	t.Parallel()

	shop, err := OrganizeShop(context.Background(), []byte(`{"storefronts":[]}`), fakeLookup{})
	require.NoError(t, err)
	assert.Empty(t, shop.Featured)
	assert.Empty(t, shop.Daily)
	assert.Empty(t, shop.CustomSections)
	assert.Nil(t, shop.Expiration)
}

func TestLookupCosmetic(t *testing.T) {
	t.Parallel()

	c, ff, _ := newTestClient(t)
	ff.responses[testEndpoints.Cosmetic+"cid_001"] = `{"status":200,"data":{"name":"Raven","rarity":{"value":"legendary"}}}`
	ff.responses[testEndpoints.Cosmetic+"cid_002"] = `{"status":200,"data":{}}`
	ff.responses[testEndpoints.Cosmetic+"cid_bad"] = `<html>`

	cos, err := c.LookupCosmetic(context.Background(), "cid_001")
	require.NoError(t, err)
	assert.Equal(t, Cosmetic{Rarity: "legendary", Name: "Raven"}, cos)

	cos, err = c.LookupCosmetic(context.Background(), "cid_002")
	require.NoError(t, err)
	assert.Equal(t, Cosmetic{Rarity: "unknown", Name: "cid_002"}, cos)

	_, err = c.LookupCosmetic(context.Background(), "cid_bad")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestFetchShop_CachesResult(t *testing.T) {
	t.Parallel()

	c, ff, fs := newTestClient(t)
	ff.responses[testEndpoints.Catalog] = testCatalog
	ff.responses[testEndpoints.Cosmetic+"cid_001"] = `{"data":{"name":"Raven","rarity":{"value":"legendary"}}}`

	shop, err := c.FetchShop(context.Background())
	require.NoError(t, err)
	require.Len(t, shop.Featured, 2)
	assert.Equal(t, "Raven", shop.Featured[0].Name)
	assert.Equal(t, "pickaxe_001", shop.Featured[1].Name)

	exists, err := afero.Exists(fs, filepath.Join(cacheDir, config.ShopCacheFile))
	require.NoError(t, err)
	assert.True(t, exists)
}
