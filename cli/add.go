package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/yellow-footed-honeyguide/rakke/internal/hash"
	"github.com/yellow-footed-honeyguide/rakke/internal/objectstore"
	"github.com/yellow-footed-honeyguide/rakke/internal/rakkeerr"
	"github.com/yellow-footed-honeyguide/rakke/internal/stage"
)

var addCmd = &cobra.Command{
	Use:   "add <path>...",
	Short: "Stage files as blob objects",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		metaDir := ".git"
		if _, err := os.Stat(metaDir); err != nil {
			return &rakkeerr.NotARepository{Dir: metaDir}
		}

		store := objectstore.New(metaDir)
		m := stage.New()

		for _, p := range args {
			if err := addPath(store, m, p); err != nil {
				return err
			}
		}

		if err := os.WriteFile(filepath.Join(metaDir, "index"), m.Serialize(), 0o644); err != nil {
			return rakkeerr.NewIoError(filepath.Join(metaDir, "index"), err)
		}
		return nil
	},
}

func addPath(store *objectstore.Store, m stage.Map, p string) error {
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return &rakkeerr.PathspecNoMatch{Path: p}
		}
		return rakkeerr.NewIoError(p, err)
	}

	if info.IsDir() {
		return filepath.Walk(p, func(walked string, wi os.FileInfo, werr error) error {
			if werr != nil {
				return rakkeerr.NewIoError(walked, werr)
			}
			rel := filepath.ToSlash(walked)
			if rel == ".git" || len(rel) > 5 && rel[:5] == ".git/" {
				if wi.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if wi.IsDir() {
				return nil
			}
			return addFile(store, m, walked, wi)
		})
	}

	return addFile(store, m, p, info)
}

func addFile(store *objectstore.Store, m stage.Map, p string, info os.FileInfo) error {
	content, err := os.ReadFile(p)
	if err != nil {
		return rakkeerr.NewIoError(p, err)
	}

	hexHash, err := store.Put(objectstore.Blob, content)
	if err != nil {
		return err
	}

	rawHash, err := hash.HexToBytes(hexHash)
	if err != nil {
		return err
	}

	mode := uint32(stage.ModeRegular)
	if info.Mode()&0o111 != 0 {
		mode = stage.ModeExecutable
	}

	m.Put(stage.Entry{
		Path:  filepath.ToSlash(p),
		Hash:  rawHash,
		Mode:  mode,
		Size:  uint32(len(content)),
		Mtime: uint32(info.ModTime().Unix()),
	})
	return nil
}
