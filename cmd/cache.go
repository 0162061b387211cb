package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nobatyar/nobat/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the local query cache",
}

var cacheWarmCmd = &cobra.Command{
	Use:   "warm",
	Short: "Prefetch every list into the cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		g, ctx := errgroup.WithContext(cmd.Context())

		g.Go(func() error {
			items, err := e.Client.Categories(ctx)
			if err != nil {
				return fmt.Errorf("warm %s: %w", cache.TagCategoryList, err)
			}
			return putList(e, cache.TagCategoryList, items)
		})
		g.Go(func() error {
			items, err := e.Client.Doctors(ctx)
			if err != nil {
				return fmt.Errorf("warm %s: %w", cache.TagDoctorList, err)
			}
			return putList(e, cache.TagDoctorList, items)
		})
		g.Go(func() error {
			items, err := e.Client.Requests(ctx)
			if err != nil {
				return fmt.Errorf("warm %s: %w", cache.TagRequestList, err)
			}
			return putList(e, cache.TagRequestList, items)
		})

		if err := g.Wait(); err != nil {
			return err
		}
		fmt.Println("WARMED category/list doctor/list request/list")
		return nil
	},
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every cached entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv()
		if err != nil {
			return err
		}
		defer e.Close()

		if err := e.Cache.Clear(); err != nil {
			return err
		}
		fmt.Println("CLEARED")
		return nil
	},
}

func putList(e *env, tag string, items any) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return e.Cache.Put(tag, payload)
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheWarmCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}
