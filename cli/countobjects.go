package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/yellow-footed-honeyguide/rakke/internal/colors"
	"github.com/yellow-footed-honeyguide/rakke/internal/config"
	"github.com/yellow-footed-honeyguide/rakke/internal/objectstore"
	"github.com/yellow-footed-honeyguide/rakke/internal/packcache"
	"github.com/yellow-footed-honeyguide/rakke/internal/packfile"
	"github.com/yellow-footed-honeyguide/rakke/internal/rakkeerr"
)

var verboseFlag bool

var countObjectsCmd = &cobra.Command{
	Use:   "count-objects",
	Short: "Count objects and report them by type",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		metaDir := ".git"
		if _, err := os.Stat(metaDir); err != nil {
			return &rakkeerr.NotARepository{Dir: metaDir}
		}

		cfg, err := config.Load(metaDir)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("verbose") && cfg.Core.Verbose {
			verboseFlag = true
		}

		store := objectstore.New(metaDir)
		loose, err := store.IterLoose()
		if err != nil {
			return err
		}

		counts := map[objectstore.Type]int{}
		seen := map[string]bool{}
		var total, inPack int

		for _, lo := range loose {
			if seen[lo.Hash] {
				continue
			}
			t, _, err := objectstore.Parse(lo.Raw)
			if err != nil {
				continue
			}
			seen[lo.Hash] = true
			counts[t]++
			total++
		}

		cache := openPackCache(metaDir, cfg)
		if cache != nil {
			defer cache.Close()
		}

		packObjs, err := packfile.EnumerateDir(filepath.Join(metaDir, "objects"), cache)
		if err != nil {
			return err
		}
		for _, o := range packObjs {
			if seen[o.Hash] {
				continue
			}
			seen[o.Hash] = true
			counts[o.Type]++
			total++
			inPack++
		}

		fmt.Println(colors.SuccessText(fmt.Sprintf("count: %d", total)))
		fmt.Printf("commits: %d\n", counts[objectstore.Commit])
		fmt.Printf("trees: %d\n", counts[objectstore.Tree])
		fmt.Printf("blobs: %d\n", counts[objectstore.Blob])
		fmt.Printf("tags: %d\n", counts[objectstore.Tag])
		fmt.Printf("unknown: %d\n", counts[objectstore.Unknown])

		if verboseFlag {
			fmt.Printf("in-pack: %d\n", inPack)
		}
		return nil
	},
}

func init() {
	countObjectsCmd.Flags().BoolVar(&verboseFlag, "verbose", false, "also report how many objects came from a pack")
}

// openPackCache opens the bbolt-backed pack-index cache, honoring
// cfg.Core.PackCacheDir when set and falling back to the default location
// under metaDir otherwise. Any failure to open is non-fatal: enumeration
// proceeds without the accelerator.
func openPackCache(metaDir string, cfg *config.Config) *packcache.Cache {
	dir := metaDir
	if cfg.Core.PackCacheDir != "" {
		dir = cfg.Core.PackCacheDir
	}
	cache, err := packcache.Open(filepath.Join(dir, "rakke-packcache.db"))
	if err != nil {
		return nil
	}
	return cache
}
