package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ajkula/dirtidy/domain/model"
)

func newCategoriesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "Show the category selectors and their destination folders",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			table, err := model.DefaultCategoryTable().WithFolderNames(cfg.Organizer.FolderNames)
			if err != nil {
				return fmt.Errorf("organizer.folderNames: %w", err)
			}

			categories := append(table.Categories(), table.Others())
			rows := make([][]string, 0, len(categories))
			for _, c := range categories {
				exts := strings.Join(c.Extensions, " ")
				if c.IsOthers() {
					exts = "(anything else, with todos)"
				}
				rows = append(rows, []string{c.Selector, c.Folder, c.Description, exts})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]tableColumn{rcol("Selector"), col("Folder"), col("Description"), col("Extensions")},
				rows,
			))
			return nil
		},
	}
}
