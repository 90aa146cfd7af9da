// Package metadata derives display information from CHIP-0007 NFT metadata.
package metadata

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
)

// Chip0007 is the subset of the CHIP-0007 schema the wallet reads.
type Chip0007 struct {
	Format           string          `json:"format"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	SensitiveContent json.RawMessage `json:"sensitive_content"`
	Collection       *Collection     `json:"collection"`
}

// Collection.ID must be a UUID; documents with any other id are rejected.
type Collection struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	Attributes []Attribute `json:"attributes"`
}

type Attribute struct {
	Type  string `json:"type"`
	Value any    `json:"value"`
}

// CollectionInfo is a collection row computed from an NFT's metadata.
type CollectionInfo struct {
	CollectionID         string
	DidID                string
	MetadataCollectionID string
	Name                 *string
	Icon                 *string
	Visible              bool
}

// Info is what the wallet stores alongside an NFT.
type Info struct {
	Name             *string
	SensitiveContent bool
	Collection       *CollectionInfo
}

// Parse decodes a CHIP-0007 document.
func Parse(blob []byte) (Chip0007, error) {
	var m Chip0007
	if err := json.Unmarshal(blob, &m); err != nil {
		return Chip0007{}, err
	}
	return m, nil
}

// IsSensitive accepts both the boolean and the list form of sensitive_content.
func (m Chip0007) IsSensitive() bool {
	raw := strings.TrimSpace(string(m.SensitiveContent))
	if raw == "" || raw == "null" {
		return false
	}
	var flag bool
	if err := json.Unmarshal(m.SensitiveContent, &flag); err == nil {
		return flag
	}
	var list []string
	if err := json.Unmarshal(m.SensitiveContent, &list); err == nil {
		return len(list) > 0
	}
	return false
}

// Compute derives Info for an NFT owned by didID (hex, may be empty).
// Missing or unparsable metadata, including a collection id that is not a
// UUID, yields the zero Info.
func Compute(didID string, blob []byte) Info {
	if len(blob) == 0 {
		return Info{}
	}
	m, err := Parse(blob)
	if err != nil {
		return Info{}
	}

	var metaID uuid.UUID
	if m.Collection != nil {
		if metaID, err = uuid.Parse(m.Collection.ID); err != nil {
			return Info{}
		}
	}

	name := m.Name
	info := Info{Name: &name, SensitiveContent: m.IsSensitive()}

	if didID == "" || m.Collection == nil {
		return info
	}
	col := &CollectionInfo{
		CollectionID:         CollectionID(didID, metaID),
		DidID:                didID,
		MetadataCollectionID: metaID.String(),
		Visible:              true,
	}
	colName := m.Collection.Name
	col.Name = &colName
	for _, attr := range m.Collection.Attributes {
		if attr.Type != "icon" {
			continue
		}
		if s, ok := attr.Value.(string); ok {
			icon := s
			col.Icon = &icon
			break
		}
	}
	info.Collection = col
	return info
}

// CollectionID hashes the creator DID together with the canonical lowercase
// form of the metadata collection id, so two creators cannot collide on the
// same collection.
func CollectionID(didID string, metadataCollectionID uuid.UUID) string {
	h := sha256.New()
	if raw, err := hex.DecodeString(strings.TrimPrefix(didID, "0x")); err == nil {
		h.Write(raw)
	} else {
		h.Write([]byte(didID))
	}
	h.Write([]byte(metadataCollectionID.String()))
	return hex.EncodeToString(h.Sum(nil))
}
