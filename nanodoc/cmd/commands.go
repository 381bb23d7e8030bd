package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/nanodoc/internal/validation"
	"github.com/arthur-debert/nanodoc/nanodoc/collection"
	"github.com/arthur-debert/nanodoc/nanodoc/types"
)

// addCollectionCommands adds the collection lifecycle commands
func (cli *CLI) addCollectionCommands() {
	collectionCmd := &cobra.Command{
		Use:   "collection",
		Short: "Create, delete or check the bound collection",
	}

	collectionCmd.AddCommand(&cobra.Command{
		Use:   "create",
		Short: "Create an empty collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.withStore("create collection", func(s *collection.Store) error {
				if err := s.Create(); err != nil {
					return WrapError("create collection", err,
						"Use 'nanodoc collection delete' to remove the existing collection")
				}
				return writeLine(cli.out, s.Name())
			})
		},
	})

	collectionCmd.AddCommand(&cobra.Command{
		Use:   "delete",
		Short: "Delete the collection and all its documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.withStore("delete collection", func(s *collection.Store) error {
				if err := s.Delete(); err != nil {
					return WrapError("delete collection", err, CommonSuggestions.CheckCollection)
				}
				return writeLine(cli.out, s.Name())
			})
		},
	})

	collectionCmd.AddCommand(&cobra.Command{
		Use:   "exists",
		Short: "Print whether the collection exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.withStore("check collection", func(s *collection.Store) error {
				ok, err := s.Exists()
				if err != nil {
					return WrapError("check collection", err)
				}
				return writeLine(cli.out, ok)
			})
		},
	})

	cli.rootCmd.AddCommand(collectionCmd)
}

// addDocumentCommands adds the document CRUD commands
func (cli *CLI) addDocumentCommands() {
	docCmd := &cobra.Command{
		Use:   "doc",
		Short: "Create, read, update and delete documents",
	}

	createCmd := &cobra.Command{
		Use:   "create [json]",
		Short: "Create a document and print its id",
		Long: `Create a document from a JSON object. An "id" field, or --id, sets the
document id; otherwise one is generated (see --id-format).

Examples:
  nanodoc -c tasks.json doc create '{"title": "write docs"}'
  nanodoc -c tasks.json doc create --id task-1 '{"title": "write docs"}'`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data := "{}"
			if len(args) == 1 {
				data = args[0]
			}
			id, _ := cmd.Flags().GetString("id")

			return cli.withStore("create document", func(s *collection.Store) error {
				var (
					newID string
					err   error
				)
				if id == "" {
					newID, err = s.CreateDocumentJSON([]byte(data))
				} else {
					var body types.Body
					body, err = decodeBody("create document", data)
					if err != nil {
						return err
					}
					body[types.IDField] = id
					newID, err = s.CreateDocument(body)
				}
				if err != nil {
					return WrapError("create document", err, CommonSuggestions.CheckJSON)
				}
				return writeLine(cli.out, newID)
			})
		},
	}
	createCmd.Flags().String("id", "", "Document id (overrides an id field in the JSON)")
	docCmd.AddCommand(createCmd)

	docCmd.AddCommand(&cobra.Command{
		Use:   "read <id>",
		Short: "Print a document body",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.withStore("read document", func(s *collection.Store) error {
				body, err := s.ReadDocument(args[0])
				if err != nil {
					return WrapError("read document", err, CommonSuggestions.CheckID)
				}
				return cli.render(body)
			})
		},
	})

	docCmd.AddCommand(&cobra.Command{
		Use:   "update <id> <json>",
		Short: "Replace a document body",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := decodeBody("update document", args[1])
			if err != nil {
				return err
			}
			return cli.withStore("update document", func(s *collection.Store) error {
				if err := s.UpdateDocument(args[0], body); err != nil {
					return WrapError("update document", err, CommonSuggestions.CheckID)
				}
				return writeLine(cli.out, args[0])
			})
		},
	})

	docCmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.withStore("delete document", func(s *collection.Store) error {
				if err := s.DeleteDocument(args[0]); err != nil {
					return WrapError("delete document", err, CommonSuggestions.CheckID)
				}
				return writeLine(cli.out, args[0])
			})
		},
	})

	docCmd.AddCommand(&cobra.Command{
		Use:   "find <id>",
		Short: "Print whether a document exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.withStore("find document", func(s *collection.Store) error {
				ok, err := s.FindDocument(args[0])
				if err != nil {
					return WrapError("find document", err, CommonSuggestions.CheckCollection)
				}
				return writeLine(cli.out, ok)
			})
		},
	})

	docCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Print document ids in insertion order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.withStore("list documents", func(s *collection.Store) error {
				ids, err := s.DocumentIDs()
				if err != nil {
					return WrapError("list documents", err, CommonSuggestions.CheckCollection)
				}
				return cli.render(ids)
			})
		},
	})

	cli.rootCmd.AddCommand(docCmd)
}

// addQueryCommand adds the query command
func (cli *CLI) addQueryCommand() {
	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "Print documents matching a filter or expression",
		Long: `Print the documents whose fields equal every --where value, or for which
the --expr CEL expression is true. Results include their "id" field and come
in insertion order. With neither flag every document matches.

--where values are read as JSON when they parse (15, true, "15", [1,2])
and as plain strings otherwise. --expr sees the body as doc and the id as id.

Examples:
  nanodoc -c tasks.json query --where done=false --where owner=ana
  nanodoc -c tasks.json query --expr 'doc.priority > 2.0 && !doc.done'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			where, _ := cmd.Flags().GetStringArray("where")
			expr, _ := cmd.Flags().GetString("expr")

			if expr != "" && len(where) > 0 {
				return NewValidationError("query documents", "flags", "--where with --expr",
					"Use either --where or --expr, not both")
			}
			filter, err := parseWhere(where)
			if err != nil {
				return err
			}

			return cli.withStore("query documents", func(s *collection.Store) error {
				var results []types.Body
				if expr != "" {
					results, err = s.QueryExpr(expr)
				} else {
					results, err = s.Query(filter)
				}
				if err != nil {
					return WrapError("query documents", err, CommonSuggestions.RunHelp)
				}
				return cli.render(results)
			})
		},
	}
	queryCmd.Flags().StringArrayP("where", "w", nil, "Equality condition field=value (repeatable)")
	queryCmd.Flags().StringP("expr", "e", "", "CEL boolean expression over doc and id")

	cli.rootCmd.AddCommand(queryCmd)
}

// withStore opens the configured collection, runs fn and releases the backend.
func (cli *CLI) withStore(operation string, fn func(s *collection.Store) error) error {
	store, release, err := cli.openStore(operation)
	if err != nil {
		return err
	}
	defer release()
	return fn(store)
}

// decodeBody parses a JSON object argument into a document body.
func decodeBody(operation, data string) (types.Body, error) {
	var v interface{}
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return nil, NewValidationError(operation, "JSON", data, CommonSuggestions.CheckJSON)
	}
	body, err := validation.DocumentBody(v)
	if err != nil {
		return nil, NewValidationError(operation, "document", data, CommonSuggestions.CheckJSON)
	}
	return body, nil
}

// parseWhere turns field=value conditions into an equality filter.
func parseWhere(conditions []string) (map[string]interface{}, error) {
	filter := make(map[string]interface{}, len(conditions))
	for _, cond := range conditions {
		field, raw, ok := strings.Cut(cond, "=")
		if !ok || field == "" {
			return nil, NewValidationError("query documents", "condition", cond,
				"Use format: --where field=value")
		}
		var value interface{}
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		filter[field] = value
	}
	return filter, nil
}
