package packfile

import (
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/yellow-footed-honeyguide/rakke/internal/packcache"
	"github.com/yellow-footed-honeyguide/rakke/internal/rakkeerr"
)

// ReadTriple loads a (.pack, .idx) pair and materializes every non-delta
// object it contains. packPath must end in ".pack"; its companion index is
// expected alongside it with the same basename. cache may be nil, in which
// case the index is always parsed fresh.
func ReadTriple(packPath string, cache *packcache.Cache) ([]Object, error) {
	idxPath := strings.TrimSuffix(packPath, ".pack") + ".idx"

	packData, err := os.ReadFile(packPath)
	if err != nil {
		return nil, rakkeerr.NewIoError(packPath, err)
	}

	idxData, err := os.ReadFile(idxPath)
	if err != nil {
		return nil, rakkeerr.NewIoError(idxPath, err)
	}

	offsetToHash := indexFor(idxData, cache)
	return ParsePack(packData, offsetToHash)
}

// indexFor returns the offset->hash map for idxData, consulting cache first
// when one is supplied. A cache miss parses the index and stores the result
// for next time; any cache error is non-fatal, matching the rest of this
// package's recover-and-continue posture.
func indexFor(idxData []byte, cache *packcache.Cache) map[uint32]string {
	if cache == nil {
		return ParseIndex(idxData)
	}

	fp := packcache.Fingerprint(idxData)
	if m, ok := cache.Lookup(fp); ok {
		return m
	}

	m := ParseIndex(idxData)
	if err := cache.Store(fp, m); err != nil {
		log.Printf("warning: pack-index cache store failed: %v", err)
	}
	return m
}

// EnumerateDir walks a repository's objects/pack directory and materializes
// every non-delta object across every pack triple found there. A pack whose
// companion index is missing, or that otherwise fails to load, is logged and
// skipped — enumeration continues with whatever other packs are present
// (spec §7: "the pack reader recovers ... it does not fail the enumeration").
// cache may be nil to disable the index cache.
func EnumerateDir(objectsDir string, cache *packcache.Cache) ([]Object, error) {
	packDir := filepath.Join(objectsDir, "pack")
	entries, err := os.ReadDir(packDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, rakkeerr.NewIoError(packDir, err)
	}

	var all []Object
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".pack") {
			continue
		}
		packPath := filepath.Join(packDir, e.Name())
		objs, err := ReadTriple(packPath, cache)
		if err != nil {
			log.Printf("warning: skipping pack %s: %v", packPath, err)
			continue
		}
		all = append(all, objs...)
	}
	return all, nil
}
