package main

import (
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meridian-advisory/renewal-intel/internal/catalog"
	"github.com/meridian-advisory/renewal-intel/internal/model"
)

var importFile string

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import a baseline product catalog from JSON or XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		var products []model.BaselineProduct
		switch strings.ToLower(filepath.Ext(importFile)) {
		case ".json":
			products, err = catalog.LoadBaselineJSON(importFile)
		case ".xlsx":
			products, err = catalog.LoadBaselineXLSX(importFile)
		default:
			return eris.Errorf("unsupported catalog format %q (want .json or .xlsx)", filepath.Ext(importFile))
		}
		if err != nil {
			return err
		}

		n, err := e.Store.SaveBaselineProducts(ctx, products)
		if err != nil {
			return err
		}

		zap.L().Info("catalog imported",
			zap.String("file", importFile),
			zap.Int("parsed", len(products)),
			zap.Int64("saved", n),
		)
		return nil
	},
}

func init() {
	importCmd.Flags().StringVar(&importFile, "file", "", "catalog file path (.json or .xlsx)")
	importCmd.MarkFlagRequired("file")
	rootCmd.AddCommand(importCmd)
}
