package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/netcompare/internal/session"
)

func newShareCmd(rt *runtime) *cobra.Command {
	var origin string
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Publish the displayed offers and print the share link",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, closeStore, err := rt.controller(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			link, err := c.Share(ctx, rt.shareOrigin(origin))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(out(cmd), link)
			return err
		},
	}
	cmd.Flags().StringVar(&origin, "origin", "", "origin of the web front used in the link (overrides NETCOMPARE_PUBLIC_URL)")
	return cmd
}

// shareOrigin picks the flag, then the configured public URL, then the
// local web front.
func (rt *runtime) shareOrigin(flag string) string {
	switch {
	case flag != "":
		return flag
	case rt.cfg.PublicURL != "":
		return rt.cfg.PublicURL
	}
	listen := rt.cfg.ListenPort
	if strings.HasPrefix(listen, ":") {
		listen = "localhost" + listen
	}
	return "http://" + listen
}

func newSharedCmd(rt *runtime) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "shared <id>",
		Short: "Print a shared snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			offers, err := rt.api().GetShare(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printShared(out(cmd), args[0], session.Cards(offers), format)
		},
	}
	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table or json")
	return cmd
}

func newForgetCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "forget",
		Short: "Delete the saved address and results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			c, closeStore, err := rt.controller(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := c.Forget(ctx); err != nil {
				return err
			}
			_, err = fmt.Fprintln(out(cmd), successStyle.Render("✅ Saved search deleted"))
			return err
		},
	}
}
