package protocol

import (
	"bytes"
	"io"

	"github.com/ashduino101/swan-dist/internal/nbt"
	"github.com/ashduino101/swan-dist/internal/text"
	"github.com/ashduino101/swan-dist/internal/varint"
)

// ClientInfoC2S reports player settings; sent once at the start of
// configuration and again whenever the client changes its settings in play.
type ClientInfoC2S struct {
	Info ClientInfo
}

func DecodeClientInfoC2S(body []byte) (ClientInfoC2S, error) {
	r := bytes.NewReader(body)
	lang, err := varint.ReadString(r)
	if err != nil {
		return ClientInfoC2S{}, err
	}
	viewDist, err := r.ReadByte()
	if err != nil {
		return ClientInfoC2S{}, err
	}
	vis, err := varint.ReadVarInt(r)
	if err != nil {
		return ClientInfoC2S{}, err
	}
	colors, err := r.ReadByte()
	if err != nil {
		return ClientInfoC2S{}, err
	}
	parts, err := r.ReadByte()
	if err != nil {
		return ClientInfoC2S{}, err
	}
	arm, err := varint.ReadVarInt(r)
	if err != nil {
		return ClientInfoC2S{}, err
	}
	filters, err := r.ReadByte()
	if err != nil {
		return ClientInfoC2S{}, err
	}
	listing, err := r.ReadByte()
	if err != nil {
		return ClientInfoC2S{}, err
	}
	return ClientInfoC2S{Info: ClientInfo{
		Lang:                lang,
		ViewDistance:        viewDist,
		ChatVisibility:      ChatVisibilityFromID(vis),
		ChatColorsEnabled:   colors != 0,
		PlayerModelParts:    parts,
		MainArm:             ArmFromID(arm),
		FiltersText:         filters != 0,
		AllowsServerListing: listing != 0,
	}}, nil
}

// CookieResponseC2S answers a CookieRequestS2C; unused by this server (no
// cookies are ever requested) but decoded for protocol completeness.
type CookieResponseC2S struct {
	Key     string
	Payload []byte // nil when the client has no matching cookie
}

func DecodeCookieResponseC2S(body []byte) (CookieResponseC2S, error) {
	r := bytes.NewReader(body)
	key, err := varint.ReadString(r)
	if err != nil {
		return CookieResponseC2S{}, err
	}
	has, err := r.ReadByte()
	if err != nil {
		return CookieResponseC2S{}, err
	}
	out := CookieResponseC2S{Key: key}
	if has != 0 {
		rest := make([]byte, r.Len())
		io.ReadFull(r, rest)
		out.Payload = rest
	}
	return out, nil
}

// CustomPayloadC2S carries a plugin-channel message, addressed by
// namespaced key (e.g. "minecraft:brand").
type CustomPayloadC2S struct {
	Key     string
	Payload []byte
}

func DecodeCustomPayloadC2S(body []byte) (CustomPayloadC2S, error) {
	r := bytes.NewReader(body)
	key, err := varint.ReadString(r)
	if err != nil {
		return CustomPayloadC2S{}, err
	}
	rest := make([]byte, r.Len())
	io.ReadFull(r, rest)
	return CustomPayloadC2S{Key: key, Payload: rest}, nil
}

// ReadyC2S (historically "finish configuration") moves the connection into play.
type ReadyC2S struct{}

func DecodeReadyC2S([]byte) ReadyC2S { return ReadyC2S{} }

// KeepAliveC2S answers KeepAliveS2C by echoing its payload.
type KeepAliveC2S struct{ ID uint64 }

func DecodeKeepAliveC2S(body []byte) (KeepAliveC2S, error) {
	if len(body) < 8 {
		return KeepAliveC2S{}, io.ErrUnexpectedEOF
	}
	return KeepAliveC2S{ID: beUint64(body)}, nil
}

// PongC2S answers the configuration-stage PingS2C.
type PongC2S struct{ ID uint32 }

func DecodePongC2S(body []byte) (PongC2S, error) {
	if len(body) < 4 {
		return PongC2S{}, io.ErrUnexpectedEOF
	}
	v := uint32(body[0])<<24 | uint32(body[1])<<16 | uint32(body[2])<<8 | uint32(body[3])
	return PongC2S{ID: v}, nil
}

// ResourcePackStatus is the client's reported outcome for a sent resource
// pack; this server never sends packs, so it is decoded only for
// completeness and never acted on.
type ResourcePackStatus int32

const (
	ResourcePackSuccess ResourcePackStatus = iota
	ResourcePackDeclined
	ResourcePackFailed
	ResourcePackAccepted
)

func resourcePackStatusFromID(v int32) ResourcePackStatus {
	switch v {
	case 0:
		return ResourcePackSuccess
	case 1:
		return ResourcePackDeclined
	case 3:
		return ResourcePackAccepted
	default:
		return ResourcePackFailed
	}
}

// ResourcePackStatusC2S reports the outcome of a SendResourcePackS2C offer.
type ResourcePackStatusC2S struct{ Status ResourcePackStatus }

func DecodeResourcePackStatusC2S(body []byte) (ResourcePackStatusC2S, error) {
	r := bytes.NewReader(body)
	v, err := varint.ReadVarInt(r)
	if err != nil {
		return ResourcePackStatusC2S{}, err
	}
	return ResourcePackStatusC2S{Status: resourcePackStatusFromID(v)}, nil
}

// VersionedIdentifier names one resource-pack/data-pack "known pack" by
// namespace, id and version, used by SelectKnownPacks in both directions.
type VersionedIdentifier struct {
	Namespace string
	ID        string
	Version   string
}

func decodeVersionedIdentifiers(r *bytes.Reader) ([]VersionedIdentifier, error) {
	n, err := varint.ReadVarInt(r)
	if err != nil {
		return nil, err
	}
	out := make([]VersionedIdentifier, 0, n)
	for i := int32(0); i < n; i++ {
		ns, err := varint.ReadString(r)
		if err != nil {
			return nil, err
		}
		id, err := varint.ReadString(r)
		if err != nil {
			return nil, err
		}
		ver, err := varint.ReadString(r)
		if err != nil {
			return nil, err
		}
		out = append(out, VersionedIdentifier{Namespace: ns, ID: id, Version: ver})
	}
	return out, nil
}

func appendVersionedIdentifiers(buf []byte, packs []VersionedIdentifier) []byte {
	buf = varint.AppendVarInt(buf, int32(len(packs)))
	for _, p := range packs {
		buf = varint.AppendString(buf, p.Namespace)
		buf = varint.AppendString(buf, p.ID)
		buf = varint.AppendString(buf, p.Version)
	}
	return buf
}

// SelectKnownPacksC2S answers SelectKnownPacksS2C with the subset of listed
// data packs the client already has cached.
type SelectKnownPacksC2S struct {
	KnownPacks []VersionedIdentifier
}

func DecodeSelectKnownPacksC2S(body []byte) (SelectKnownPacksC2S, error) {
	r := bytes.NewReader(body)
	packs, err := decodeVersionedIdentifiers(r)
	if err != nil {
		return SelectKnownPacksC2S{}, err
	}
	return SelectKnownPacksC2S{KnownPacks: packs}, nil
}

// CookieRequestS2C asks the client to echo back a stored cookie value;
// unused (see CookieResponseC2S).
type CookieRequestS2C struct{ Key string }

func (p CookieRequestS2C) Encode(Version) []byte { return varint.AppendString(nil, p.Key) }
func (CookieRequestS2C) ID(Version) int32        { return 0 }

// CustomPayloadS2C is the server-to-client plugin-channel message; this
// server uses it only to send its own "minecraft:brand" once the client's
// ClientInfo arrives during configuration.
type CustomPayloadS2C struct {
	Key     string
	Payload []byte
}

func (p CustomPayloadS2C) Encode(Version) []byte {
	buf := varint.AppendString(nil, p.Key)
	return append(buf, p.Payload...)
}
func (CustomPayloadS2C) ID(Version) int32 { return 1 }

// ConfigDisconnectS2C aborts configuration with a reason; JSON-encoded like
// LoginDisconnectS2C (config predates the NBT text switchover on its own
// disconnect packet even on 1.20.3+ clients).
type ConfigDisconnectS2C struct{ Reason *text.Component }

func (p ConfigDisconnectS2C) Encode(Version) []byte {
	j, _ := p.Reason.MarshalJSON()
	return varint.AppendString(nil, string(j))
}
func (ConfigDisconnectS2C) ID(Version) int32 { return 2 }

// ReadyS2C tells the client configuration is complete; carries no fields.
type ReadyS2C struct{}

func (ReadyS2C) Encode(Version) []byte { return nil }
func (ReadyS2C) ID(Version) int32      { return 3 }

// ConfigKeepAliveS2C (configuration stage) expects KeepAliveC2S to echo the payload.
type ConfigKeepAliveS2C struct{ Payload uint64 }

func (p ConfigKeepAliveS2C) Encode(Version) []byte { return varint.AppendInt64(nil, int64(p.Payload)) }
func (ConfigKeepAliveS2C) ID(Version) int32        { return 4 }

// PingS2C is the configuration-stage ping, answered by PongC2S.
type PingS2C struct{ Parameter uint32 }

func (p PingS2C) Encode(Version) []byte {
	return append([]byte(nil), byte(p.Parameter>>24), byte(p.Parameter>>16), byte(p.Parameter>>8), byte(p.Parameter))
}
func (PingS2C) ID(Version) int32 { return 5 }

// ResetChatS2C clears the client's chat session state; carries no fields.
type ResetChatS2C struct{}

func (ResetChatS2C) Encode(Version) []byte { return nil }
func (ResetChatS2C) ID(Version) int32      { return 6 }

// RegistryEntry is one dynamic-registry element: an id and, optionally, its
// NBT-encoded payload (omitted entries fall back to the vanilla default).
type RegistryEntry struct {
	ID   string
	Data *nbt.Tag
}

// DynamicRegistriesS2C replaces the pre-1.20.2 monolithic registry codec
// sent in JoinGameS2C: one registry id plus its entries, sent once per
// registry during configuration.
type DynamicRegistriesS2C struct {
	RegistryID string
	Entries    []RegistryEntry
}

func (p DynamicRegistriesS2C) Encode(v Version) []byte {
	buf := varint.AppendString(nil, p.RegistryID)
	buf = varint.AppendVarInt(buf, int32(len(p.Entries)))
	for _, e := range p.Entries {
		buf = varint.AppendString(buf, e.ID)
		buf = varint.AppendBool(buf, e.Data != nil)
		if e.Data != nil {
			buf = nbt.Serialize(buf, *e.Data, v >= V1_20_2)
		}
	}
	return buf
}
func (DynamicRegistriesS2C) ID(Version) int32 { return 7 }

// RemoveResourcePackS2C removes a previously sent pack, or all packs when
// ID is nil; unused by this server (no resource packs are ever sent) but
// kept for protocol completeness.
type RemoveResourcePackS2C struct{ ID *string }

func (p RemoveResourcePackS2C) Encode(Version) []byte {
	buf := varint.AppendBool(nil, p.ID != nil)
	if p.ID != nil {
		buf = varint.AppendString(buf, *p.ID)
	}
	return buf
}
func (RemoveResourcePackS2C) ID(Version) int32 { return 8 }

// SendResourcePackS2C offers a downloadable resource pack; unused.
type SendResourcePackS2C struct {
	URL, Hash string
	Required  bool
	Prompt    *string
}

func (p SendResourcePackS2C) Encode(Version) []byte {
	buf := varint.AppendString(nil, p.URL)
	buf = varint.AppendString(buf, p.Hash)
	buf = varint.AppendBool(buf, p.Required)
	buf = varint.AppendBool(buf, p.Prompt != nil)
	if p.Prompt != nil {
		buf = varint.AppendString(buf, *p.Prompt)
	}
	return buf
}
func (SendResourcePackS2C) ID(Version) int32 { return 9 }

// StoreCookieS2C asks the client to remember an opaque value for a future
// CookieResponseC2S; unused by this server.
type StoreCookieS2C struct {
	Key     string
	Payload []byte
}

func (p StoreCookieS2C) Encode(Version) []byte {
	buf := varint.AppendString(nil, p.Key)
	return append(buf, p.Payload...)
}
func (StoreCookieS2C) ID(Version) int32 { return 10 }

// ServerTransferS2C redirects the client to a different host:port; unused
// by this server (no transfer target exists) but kept for completeness.
type ServerTransferS2C struct {
	Host string
	Port uint16
}

func (p ServerTransferS2C) Encode(Version) []byte {
	buf := varint.AppendString(nil, p.Host)
	return varint.AppendVarInt(buf, int32(p.Port))
}
func (ServerTransferS2C) ID(Version) int32 { return 11 }

// FeaturesS2C advertises enabled vanilla feature flags (e.g. "minecraft:vanilla").
type FeaturesS2C struct{ Features []string }

func (p FeaturesS2C) Encode(Version) []byte {
	buf := varint.AppendVarInt(nil, int32(len(p.Features)))
	for _, f := range p.Features {
		buf = varint.AppendString(buf, f)
	}
	return buf
}
func (FeaturesS2C) ID(Version) int32 { return 12 }

// RegistryTag is one named group of registry entry ids (e.g. a block tag).
type RegistryTag struct {
	Name    string
	Entries []int32
}

// SyncTagsS2C is the legacy pre-1.20.2-style tag sync: unused by this
// server (no gameplay tags are modeled) but present so the config opcode
// table matches the vendor's own numbering.
type SyncTagsS2C struct {
	Tags map[string][]RegistryTag
}

func (p SyncTagsS2C) Encode(Version) []byte {
	buf := varint.AppendVarInt(nil, int32(len(p.Tags)))
	for registry, tags := range p.Tags {
		buf = varint.AppendString(buf, registry)
		buf = varint.AppendVarInt(buf, int32(len(tags)))
		for _, tag := range tags {
			buf = varint.AppendString(buf, tag.Name)
			buf = varint.AppendVarInt(buf, int32(len(tag.Entries)))
			for _, e := range tag.Entries {
				buf = varint.AppendVarInt(buf, e)
			}
		}
	}
	return buf
}
func (SyncTagsS2C) ID(Version) int32 { return 13 }

// SelectKnownPacksS2C lists the server's data packs and asks the client
// which it already has cached, via SelectKnownPacksC2S. This server always
// sends the single entry minecraft:core at version 1.21.
type SelectKnownPacksS2C struct {
	KnownPacks []VersionedIdentifier
}

func (p SelectKnownPacksS2C) Encode(Version) []byte {
	return appendVersionedIdentifiers(nil, p.KnownPacks)
}
func (SelectKnownPacksS2C) ID(Version) int32 { return 14 }

// ReportDetailsS2C attaches freeform key/value metadata to client crash
// reports; unused by this server.
type ReportDetailsS2C struct{ Details map[string]string }

func (p ReportDetailsS2C) Encode(Version) []byte {
	buf := varint.AppendVarInt(nil, int32(len(p.Details)))
	for title, desc := range p.Details {
		buf = varint.AppendString(buf, title)
		buf = varint.AppendString(buf, desc)
	}
	return buf
}
func (ReportDetailsS2C) ID(Version) int32 { return 15 }

// LinkLabel is a server-links entry's preset label, or a Custom text
// component for labels the client's translation table doesn't cover.
type LinkLabel struct {
	preset int32 // -1 when Custom is set
	custom *text.Component
}

var (
	LinkBugReport           = LinkLabel{preset: 0}
	LinkCommunityGuidelines = LinkLabel{preset: 1}
	LinkSupport             = LinkLabel{preset: 2}
	LinkStatus              = LinkLabel{preset: 3}
	LinkFeedback            = LinkLabel{preset: 4}
	LinkCommunity           = LinkLabel{preset: 5}
	LinkWebsite             = LinkLabel{preset: 6}
	LinkForums              = LinkLabel{preset: 7}
	LinkNews                = LinkLabel{preset: 8}
	LinkAnnouncements       = LinkLabel{preset: 9}
)

// CustomLinkLabel builds a Custom-labeled link from an arbitrary text component.
func CustomLinkLabel(c *text.Component) LinkLabel { return LinkLabel{preset: -1, custom: c} }

func (l LinkLabel) appendTo(buf []byte, v Version) []byte {
	if l.custom != nil {
		buf = append(buf, 0)
		return nbt.Serialize(buf, l.custom.ToNBT(), v >= V1_20_2)
	}
	buf = append(buf, 1)
	return varint.AppendVarInt(buf, l.preset)
}

// Link is one server-links entry: a label and its target URL.
type Link struct {
	Label LinkLabel
	URL   string
}

// LinksS2C is the server-links menu (website, store, vote, etc.) shown in
// the client's pause-menu "Server Links" panel.
type LinksS2C struct{ Links []Link }

func (p LinksS2C) Encode(v Version) []byte {
	buf := varint.AppendVarInt(nil, int32(len(p.Links)))
	for _, l := range p.Links {
		buf = l.Label.appendTo(buf, v)
		buf = varint.AppendString(buf, l.URL)
	}
	return buf
}
func (LinksS2C) ID(Version) int32 { return 16 }
