// Package registry provides the level catalog. Levels are described by a
// gamedesc.yaml index inside a data directory and loaded by name and hash.
// Without a data directory the embedded catalog is used.
package registry

import (
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data
var embedded embed.FS

// IndexFile is the catalog index inside a data directory.
const IndexFile = "gamedesc.yaml"

// ErrUnknownLevel is returned by Lookup and Load for unregistered levels.
var ErrUnknownLevel = errors.New("registry: unknown level")

// Level types.
const (
	TypeCampaign  = "campaign"
	TypeSkirmish  = "skirmish"
	TypeChallenge = "challenge"
)

// LevelRef identifies a level. Several levels may share a name; Hash tells
// them apart.
type LevelRef struct {
	Name  string `yaml:"name"`
	Title string `yaml:"title"`
	Type  string `yaml:"type"`
	File  string `yaml:"file"`
	Next  string `yaml:"next,omitempty"` // campaign successor
	Hash  string `yaml:"hash,omitempty"` // sha256 of File, hex; filled on register
}

type index struct {
	Levels []LevelRef `yaml:"levels"`
}

// Catalog is a set of registered levels backed by a file system.
type Catalog struct {
	mu     sync.RWMutex
	fsys   fs.FS
	levels map[string][]LevelRef
	cache  map[string]*Level // by name+hash, written from the main goroutine
}

// New returns an empty catalog reading level files from fsys.
func New(fsys fs.FS) *Catalog {
	return &Catalog{
		fsys:   fsys,
		levels: make(map[string][]LevelRef),
		cache:  make(map[string]*Level),
	}
}

// Embedded returns the built-in catalog.
func Embedded() (*Catalog, error) {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		return nil, fmt.Errorf("registry: embedded data: %w", err)
	}
	return LoadCatalog(sub)
}

// LoadCatalog reads IndexFile from fsys and registers every level in it.
func LoadCatalog(fsys fs.FS) (*Catalog, error) {
	data, err := fs.ReadFile(fsys, IndexFile)
	if err != nil {
		return nil, fmt.Errorf("registry: cannot read %s: %w", IndexFile, err)
	}
	var idx index
	if err := yaml.Unmarshal(data, &idx); err != nil {
		return nil, fmt.Errorf("registry: cannot parse %s: %w", IndexFile, err)
	}

	c := New(fsys)
	for _, ref := range idx.Levels {
		if err := c.Register(ref); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Register adds a level. The level file must exist; its hash is computed
// when ref.Hash is empty and verified otherwise. A level with the same name
// and hash cannot be registered twice.
func (c *Catalog) Register(ref LevelRef) error {
	if ref.Name == "" || ref.File == "" {
		return fmt.Errorf("registry: level needs a name and a file")
	}
	switch ref.Type {
	case "":
		ref.Type = TypeCampaign
	case TypeCampaign, TypeSkirmish, TypeChallenge:
	default:
		return fmt.Errorf("registry: level %s: unknown type %q", ref.Name, ref.Type)
	}

	data, err := fs.ReadFile(c.fsys, ref.File)
	if err != nil {
		return fmt.Errorf("registry: level %s: %w", ref.Name, err)
	}
	sum := hashOf(data)
	if ref.Hash != "" && ref.Hash != sum {
		return fmt.Errorf("registry: level %s: hash mismatch", ref.Name)
	}
	ref.Hash = sum
	if ref.Title == "" {
		ref.Title = ref.Name
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, existing := range c.levels[ref.Name] {
		if existing.Hash == ref.Hash {
			return fmt.Errorf("registry: level %s already registered", ref.Name)
		}
	}
	c.levels[ref.Name] = append(c.levels[ref.Name], ref)
	return nil
}

// Lookup resolves a name and an optional hash. An empty hash matches only
// when the name is unique.
func (c *Catalog) Lookup(name, hash string) (LevelRef, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	refs := c.levels[name]
	if hash == "" {
		switch len(refs) {
		case 0:
			return LevelRef{}, fmt.Errorf("%w %q", ErrUnknownLevel, name)
		case 1:
			return refs[0], nil
		default:
			return LevelRef{}, fmt.Errorf("registry: level %q is ambiguous, hash required", name)
		}
	}
	for _, ref := range refs {
		if ref.Hash == hash {
			return ref, nil
		}
	}
	return LevelRef{}, fmt.Errorf("%w %q (hash %s)", ErrUnknownLevel, name, hash)
}

// List returns all registered levels sorted by name, then hash.
func (c *Catalog) List() []LevelRef {
	c.mu.RLock()
	defer c.mu.RUnlock()

	result := make([]LevelRef, 0, len(c.levels))
	for _, refs := range c.levels {
		result = append(result, refs...)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Name != result[j].Name {
			return result[i].Name < result[j].Name
		}
		return result[i].Hash < result[j].Hash
	})
	return result
}

// Load returns the parsed level for name and hash, from the preload cache
// when possible.
func (c *Catalog) Load(name, hash string) (*Level, error) {
	ref, err := c.Lookup(name, hash)
	if err != nil {
		return nil, err
	}
	key := cacheKey(ref)

	c.mu.RLock()
	lvl, ok := c.cache[key]
	c.mu.RUnlock()
	if ok {
		return lvl, nil
	}
	return c.read(ref)
}

// Release drops every cached level.
func (c *Catalog) Release() {
	c.mu.Lock()
	c.cache = make(map[string]*Level)
	c.mu.Unlock()
}

// Cached reports how many levels are held in the cache.
func (c *Catalog) Cached() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.cache)
}

func (c *Catalog) store(lvl *Level) {
	c.mu.Lock()
	c.cache[cacheKey(lvl.Ref)] = lvl
	c.mu.Unlock()
}

func (c *Catalog) read(ref LevelRef) (*Level, error) {
	data, err := fs.ReadFile(c.fsys, ref.File)
	if err != nil {
		return nil, fmt.Errorf("registry: level %s: %w", ref.Name, err)
	}
	if hashOf(data) != ref.Hash {
		return nil, fmt.Errorf("registry: level %s changed on disk", ref.Name)
	}
	lvl, err := ParseLevel(data)
	if err != nil {
		return nil, fmt.Errorf("registry: level %s (%s): %w", ref.Name, path.Base(ref.File), err)
	}
	lvl.Ref = ref
	return lvl, nil
}

func cacheKey(ref LevelRef) string {
	return ref.Name + "@" + ref.Hash
}

func hashOf(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
