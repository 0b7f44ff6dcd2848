package domain

import (
	"fmt"
	"strings"
)

// ObjectType is a bitmask describing the category and role of an object node
type ObjectType uint32

const (
	TypeFile ObjectType = 1 << iota
	TypeFolder
	TypeRoot
	TypeMusic
	TypePhoto
	TypeVideo
	TypeSaveData
	TypeAlbum
	TypeGenre
	TypeArtist
	TypeAlbumArtist
)

var typeNames = []struct {
	bit  ObjectType
	name string
}{
	{TypeFile, "file"},
	{TypeFolder, "folder"},
	{TypeRoot, "root"},
	{TypeMusic, "music"},
	{TypePhoto, "photo"},
	{TypeVideo, "video"},
	{TypeSaveData, "savedata"},
	{TypeAlbum, "album"},
	{TypeGenre, "genre"},
	{TypeArtist, "artist"},
	{TypeAlbumArtist, "albumartist"},
}

// groupingBits marks the virtual folders shared across media nodes
const groupingBits = TypeAlbum | TypeGenre | TypeArtist | TypeAlbumArtist

// Has reports whether every bit of mask is set
func (t ObjectType) Has(mask ObjectType) bool {
	return t&mask == mask
}

// IsRoot reports whether the node is a category root
func (t ObjectType) IsRoot() bool {
	return t.Has(TypeRoot)
}

// IsGrouping reports whether the node is an album, genre or artist folder
func (t ObjectType) IsGrouping() bool {
	return t&groupingBits != 0
}

func (t ObjectType) String() string {
	if t == 0 {
		return "none"
	}
	var parts []string
	rest := t
	for _, tn := range typeNames {
		if t&tn.bit != 0 {
			parts = append(parts, tn.name)
			rest &^= tn.bit
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// Well-known object ids. Everything below ReservedIDs is held for system nodes.
const (
	RootMusic    int64 = 1
	RootPhotos   int64 = 2
	RootVideos   int64 = 3
	RootSaveData int64 = 4

	ReservedIDs int64 = 256
)

// ObjectNode is a vertex of the content graph.
// ChildCount and ReferenceCount always equal the number of outgoing and
// incoming edges.
type ObjectNode struct {
	ID             int64
	Type           ObjectType
	Title          string
	ChildCount     int
	ReferenceCount int
}

// Empty reports whether a parent lost its last child. Roots are kept.
func (n *ObjectNode) Empty() bool {
	return !n.Type.IsRoot() && n.ChildCount <= 0
}

// Orphaned reports whether a child lost its last referrer. Roots are kept.
func (n *ObjectNode) Orphaned() bool {
	return !n.Type.IsRoot() && n.ReferenceCount <= 0
}

// Edge links a parent node to a child node
type Edge struct {
	ParentID int64
	ChildID  int64
}

// RootNode describes a seeded category root
type RootNode struct {
	ID    int64
	Title string
	Type  ObjectType
}

// Roots lists the category roots seeded on initialization
var Roots = []RootNode{
	{RootMusic, "Music", TypeRoot | TypeFolder | TypeMusic},
	{RootPhotos, "Photos", TypeRoot | TypeFolder | TypePhoto},
	{RootVideos, "Videos", TypeRoot | TypeFolder | TypeVideo},
	{RootSaveData, "Saved Data", TypeRoot | TypeFolder | TypeSaveData},
}

// RootFor returns the seeded root with the given id
func RootFor(id int64) (RootNode, bool) {
	for _, r := range Roots {
		if r.ID == id {
			return r, true
		}
	}
	return RootNode{}, false
}

// StoreStats holds row counts for every table of the store
type StoreStats struct {
	Objects  int
	Edges    int
	Sources  int
	Music    int
	Photos   int
	Videos   int
	SaveData int
	NextID   int64
}
