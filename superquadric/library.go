package superquadric

import (
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"github.com/samber/lo"

	"go.viam.com/superquadric/logging"
	"go.viam.com/superquadric/pointcloud"
	"go.viam.com/superquadric/utils"
)

// ErrPrimitiveNotFound is returned, wrapped with the id, when a library has no primitive by that id.
var ErrPrimitiveNotFound = errors.New("primitive not found")

// A Library resolves primitive ids to canonical vertex sets. Returned slices are shared and must
// not be modified.
type Library interface {
	Vertices(id string) ([]r3.Vector, error)
}

// MapLibrary is an in-memory Library keyed by primitive id.
type MapLibrary map[string][]r3.Vector

// Vertices returns the vertex set stored under id.
func (lib MapLibrary) Vertices(id string) ([]r3.Vector, error) {
	verts, ok := lib[id]
	if !ok {
		return nil, errors.Wrapf(ErrPrimitiveNotFound, "%q", id)
	}
	return verts, nil
}

var libraryExtensions = []string{".ply", ".obj"}

// DirLibrary is a Library backed by a directory of PLY or OBJ primitive files. An id is a file name
// relative to the directory, with or without its extension. Loaded vertex sets are cached.
type DirLibrary struct {
	root   string
	logger logging.Logger

	mu    sync.Mutex
	cache map[string][]r3.Vector
}

// NewDirLibrary returns a library reading primitives from root, which must be a directory.
func NewDirLibrary(root string, logger logging.Logger) (*DirLibrary, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open primitive library")
	}
	if !info.IsDir() {
		return nil, errors.Errorf("primitive library %q is not a directory", root)
	}
	return &DirLibrary{
		root:   root,
		logger: logger,
		cache:  map[string][]r3.Vector{},
	}, nil
}

// Root returns the library directory.
func (lib *DirLibrary) Root() string {
	return lib.root
}

func (lib *DirLibrary) resolve(id string) (string, error) {
	candidates := []string{id}
	if filepath.Ext(id) == "" {
		candidates = lo.Map(libraryExtensions, func(ext string, _ int) string { return id + ext })
	}
	for _, name := range candidates {
		path, err := utils.SafeJoinDir(lib.root, name)
		if err != nil {
			return "", err
		}
		if utils.FileExists(path) {
			return path, nil
		}
	}
	return "", errors.Wrapf(ErrPrimitiveNotFound, "%q in %q", id, lib.root)
}

// Vertices loads, or returns the cached, vertex set for id.
func (lib *DirLibrary) Vertices(id string) ([]r3.Vector, error) {
	lib.mu.Lock()
	verts, ok := lib.cache[id]
	lib.mu.Unlock()
	if ok {
		return verts, nil
	}

	path, err := lib.resolve(id)
	if err != nil {
		return nil, err
	}
	cloud, err := pointcloud.NewFromFile(path, lib.logger)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load primitive %q", id)
	}
	verts = pointcloud.Vectors(cloud)
	lib.mu.Lock()
	lib.cache[id] = verts
	lib.mu.Unlock()
	lib.logger.Debugw("loaded primitive", "primitive", id, "vertices", len(verts))
	return verts, nil
}

// List returns the ids of every primitive file in the library, sorted.
func (lib *DirLibrary) List() ([]string, error) {
	entries, err := os.ReadDir(lib.root)
	if err != nil {
		return nil, err
	}
	ids := lo.FilterMap(entries, func(entry os.DirEntry, _ int) (string, bool) {
		if entry.IsDir() {
			return "", false
		}
		return entry.Name(), lo.Contains(libraryExtensions, strings.ToLower(filepath.Ext(entry.Name())))
	})
	sort.Strings(ids)
	return ids, nil
}

// PrimitiveID returns the library file name of the superquadric with shape exponents eps1 and eps2,
// for example "0.5_1.0.ply".
func PrimitiveID(eps1, eps2 float64) string {
	return formatExponent(eps1) + "_" + formatExponent(eps2) + ".ply"
}

// formatExponent always keeps a fractional part so whole numbers read as "1.0".
func formatExponent(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if v == math.Trunc(v) && !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}
