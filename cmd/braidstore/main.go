// Package main provides the braidstore CLI entry point.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/braidstore/braidstore/internal/config"
	"github.com/braidstore/braidstore/internal/graph"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "braidstore",
		Short: "braidstore - an embedded account-owned graph datastore",
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("braidstore v%s\n", version)
		},
	})

	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Account lifecycle operations",
	}
	accountCmd.AddCommand(newAccountCreateCmd())
	accountCmd.AddCommand(newAccountDeleteCmd())
	rootCmd.AddCommand(accountCmd)

	vertexCmd := &cobra.Command{
		Use:   "vertex",
		Short: "Vertex operations",
	}
	vertexCmd.AddCommand(newVertexCreateCmd())
	rootCmd.AddCommand(vertexCmd)

	edgeCmd := &cobra.Command{
		Use:   "edge",
		Short: "Edge operations",
	}
	edgeCmd.AddCommand(newEdgeSetCmd())
	rootCmd.AddCommand(edgeCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// openDatastore loads configuration and opens a Datastore; callers are
// responsible for closing it.
func openDatastore() (*graph.Datastore, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	opts := graph.StoreOptions{
		DataDir:      cfg.Store.DataDir,
		InMemory:     cfg.Store.InMemory,
		SyncWrites:   cfg.Store.SyncWrites,
		LowMemory:    cfg.Store.LowMemory,
		MaxOpenFiles: cfg.Store.MaxOpenFiles,
	}
	return graph.Open(opts)
}

func newAccountCreateCmd() *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account and print its id and one-time secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := openDatastore()
			if err != nil {
				return err
			}
			defer ds.Close()

			id, secret, err := ds.CreateAccount([]byte(email))
			if err != nil {
				return fmt.Errorf("creating account: %w", err)
			}
			fmt.Printf("id:     %s\n", id)
			fmt.Printf("secret: %s\n", secret)
			fmt.Println("the secret above is shown once; it cannot be recovered later")
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email, stored as opaque bytes")
	return cmd
}

func newAccountDeleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete [account-id]",
		Short: "Delete an account, cascading to its vertices and edges",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid account id: %w", err)
			}

			ds, err := openDatastore()
			if err != nil {
				return err
			}
			defer ds.Close()

			if err := ds.DeleteAccount(id); err != nil {
				return fmt.Errorf("deleting account: %w", err)
			}
			fmt.Println("account deleted")
			return nil
		},
	}
	return cmd
}

func newVertexCreateCmd() *cobra.Command {
	var ownerID, vertexType string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a vertex owned by an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := uuid.Parse(ownerID)
			if err != nil {
				return fmt.Errorf("invalid --owner: %w", err)
			}

			ds, err := openDatastore()
			if err != nil {
				return err
			}
			defer ds.Close()

			tx, err := ds.Transaction(owner)
			if err != nil {
				return fmt.Errorf("opening transaction: %w", err)
			}

			id, err := tx.CreateVertex(graph.Type(vertexType))
			if err != nil {
				return fmt.Errorf("creating vertex: %w", err)
			}
			fmt.Println(id)
			return nil
		},
	}
	cmd.Flags().StringVar(&ownerID, "owner", "", "owning account id (required)")
	cmd.Flags().StringVar(&vertexType, "type", "", "vertex type (required)")
	cmd.MarkFlagRequired("owner")
	cmd.MarkFlagRequired("type")
	return cmd
}

func newEdgeSetCmd() *cobra.Command {
	var ownerID, outboundID, inboundID, edgeType string
	var weight float64
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Create or overwrite an edge between two vertices",
		RunE: func(cmd *cobra.Command, args []string) error {
			owner, err := uuid.Parse(ownerID)
			if err != nil {
				return fmt.Errorf("invalid --owner: %w", err)
			}
			outbound, err := uuid.Parse(outboundID)
			if err != nil {
				return fmt.Errorf("invalid --outbound: %w", err)
			}
			inbound, err := uuid.Parse(inboundID)
			if err != nil {
				return fmt.Errorf("invalid --inbound: %w", err)
			}

			ds, err := openDatastore()
			if err != nil {
				return err
			}
			defer ds.Close()

			tx, err := ds.Transaction(owner)
			if err != nil {
				return fmt.Errorf("opening transaction: %w", err)
			}

			if err := tx.SetEdge(outbound, graph.Type(edgeType), inbound, weight); err != nil {
				return fmt.Errorf("setting edge: %w", err)
			}

			edge, err := tx.GetEdge(outbound, graph.Type(edgeType), inbound)
			if err != nil {
				return fmt.Errorf("reading back edge: %w", err)
			}
			out, _ := json.Marshal(edge)
			fmt.Println(string(out))
			return nil
		},
	}
	cmd.Flags().StringVar(&ownerID, "owner", "", "account id that owns the outbound vertex (required)")
	cmd.Flags().StringVar(&outboundID, "outbound", "", "outbound vertex id (required)")
	cmd.Flags().StringVar(&inboundID, "inbound", "", "inbound vertex id (required)")
	cmd.Flags().StringVar(&edgeType, "type", "", "edge type (required)")
	cmd.Flags().Float64Var(&weight, "weight", 0, "edge weight in [-1.0, 1.0]")
	cmd.MarkFlagRequired("owner")
	cmd.MarkFlagRequired("outbound")
	cmd.MarkFlagRequired("inbound")
	cmd.MarkFlagRequired("type")
	return cmd
}
