package main

import (
	"fmt"
	"strconv"

	units "github.com/docker/go-units"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

// newShellCommands builds a fresh cobra.Command tree bound to sess. A new
// tree is built for every REPL line (see repl.go) because cobra.Command
// carries per-invocation flag state that does not reset cleanly between
// Execute calls.
func newShellCommands(sess *session) *cobra.Command {
	root := &cobra.Command{
		Use:           "gcshell",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(&cobra.Command{
		Use:   "types",
		Short: "list the types in the current universe",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range sess.sortedTypeNames() {
				t := sess.universe[name]
				fmt.Fprintf(cmd.OutOrStdout(), "%-10s kind=%-6s layout={size=%d align=%d}\n",
					name, t.Kind(), t.Layout().Size, t.Layout().Align)
			}
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "alloc <type>",
		Short: "allocate one instance of a scalar or struct type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok := sess.universe[args[0]]
			if !ok {
				return fmt.Errorf("gcshell: unknown type %q", args[0])
			}
			h := sess.gc.Alloc(t)
			fmt.Fprintln(cmd.OutOrStdout(), sess.bind(h))
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "alloc-array <type> <n>",
		Short: "allocate an array of n elements of type",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, ok := sess.universe[args[0]]
			if !ok {
				return fmt.Errorf("gcshell: unknown type %q", args[0])
			}
			n, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("gcshell: invalid element count: %w", err)
			}
			h, err := sess.gc.AllocArray(t, n)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), sess.bind(h))
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "root <handle>",
		Short: "add a root to a handle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, ok := sess.resolve(args[0])
			if !ok {
				return fmt.Errorf("gcshell: unknown handle %q", args[0])
			}
			sess.gc.Root(h)
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "unroot <handle>",
		Short: "remove a root from a handle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, ok := sess.resolve(args[0])
			if !ok {
				return fmt.Errorf("gcshell: unknown handle %q", args[0])
			}
			sess.gc.Unroot(h)
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "ptrtype <handle>",
		Short: "print the current type of a handle",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			h, ok := sess.resolve(args[0])
			if !ok {
				return fmt.Errorf("gcshell: unknown handle %q", args[0])
			}
			t, ok := sess.gc.PtrType(h)
			if !ok {
				return fmt.Errorf("gcshell: handle %q is not live", args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), t.Name())
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "collect",
		Short: "run one mark-sweep collection pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			freed := sess.gc.Collect()
			fmt.Fprintf(cmd.OutOrStdout(), "freed=%v\n", freed)
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "map",
		Short: "migrate every live allocation to the v2 schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			deleted, err := sess.migrate()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrated; %d deleted-type handle(s) pending collection\n", len(deleted))
			return nil
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "print allocator and OS resource usage",
		RunE: func(cmd *cobra.Command, args []string) error {
			st := sess.gc.Stats()
			fmt.Fprintf(cmd.OutOrStdout(), "allocated: %s\n", units.BytesSize(float64(st.AllocatedBytes)))

			var ru unix.Rusage
			if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "rss: %s\n", units.BytesSize(float64(ru.Maxrss)*1024))
			}
			return nil
		},
	})

	return root
}
