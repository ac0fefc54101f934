package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newVoicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "voices",
		Short: "List voices reported by each registered render provider",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := requireConfig()
			if err != nil {
				return err
			}

			registry := buildProviderRegistry(cfg)
			if registry.Len() == 0 {
				return fmt.Errorf("no render provider initialized; run `scriptvoice doctor` to diagnose")
			}

			for _, name := range registry.Names() {
				p, ok := registry.Get(name)
				if !ok {
					continue
				}

				voices, err := p.ListVoices(cmd.Context())
				if err != nil {
					fmt.Fprintf(os.Stderr, "%s: listing voices failed: %v\n", name, err)
					continue
				}

				if len(voices) == 0 {
					fmt.Fprintf(os.Stdout, "%s: (no named voices)\n", name)
					continue
				}

				for _, v := range voices {
					fmt.Fprintf(os.Stdout, "%s: %s\t%s\n", name, v.ID, v.Name)
				}
			}

			return nil
		},
	}
}
