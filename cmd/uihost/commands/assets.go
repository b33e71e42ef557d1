package commands

import (
	"fmt"
	"mime"
	"path"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/cobra"

	"github.com/vulntor/uihost/cmd/uihost/internal/format"
	"github.com/vulntor/uihost/pkg/appctx"
	"github.com/vulntor/uihost/pkg/assets"
	"github.com/vulntor/uihost/pkg/server"
	"github.com/vulntor/uihost/pkg/stringutil"
	"github.com/vulntor/uihost/pkg/ui"
)

type assetInfo struct {
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

func newAssetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "assets",
		Short: "List the files of the embedded UI bundle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			formatter := format.FromCommand(cmd)

			mgr, ok := appctx.Config(cmd.Context())
			if !ok {
				return server.ErrConfigUnavailable
			}

			src, err := assets.NewFSSource(ui.DistFS, mgr.Get().Server.UI.Root)
			if err != nil {
				return err
			}

			items, err := listAssets(src)
			if err != nil {
				return err
			}

			if formatter.IsJSON() {
				return formatter.PrintJSON(items)
			}

			var total int64
			rows := make([][]string, 0, len(items))
			for _, it := range items {
				total += it.Size
				rows = append(rows, []string{stringutil.EllipsisMiddle(it.Name, 48), humanize.Bytes(uint64(it.Size)), it.ContentType})
			}
			if err := formatter.PrintTable([]string{"Name", "Size", "Type"}, rows); err != nil {
				return err
			}
			return formatter.PrintSummary(fmt.Sprintf("%d files, %s", len(items), humanize.Bytes(uint64(total))))
		},
	}
}

// listAssets describes every file of w. Types come from the extension, or
// from the content when w is also a Source.
func listAssets(w assets.Walker) ([]assetInfo, error) {
	src, _ := w.(assets.Source)

	var items []assetInfo
	err := w.Walk(func(e assets.Entry) error {
		ctype := mime.TypeByExtension(path.Ext(e.Name))
		if ctype == "" && src != nil {
			data, err := src.Lookup(e.Name)
			if err != nil {
				return err
			}
			ctype = mimetype.Detect(data).String()
		}
		if ctype == "" {
			ctype = "application/octet-stream"
		}
		items = append(items, assetInfo{Name: e.Name, Size: e.Size, ContentType: ctype})
		return nil
	})
	return items, err
}
