package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"rhystmorgan/contactsterm/internal/models"
	"rhystmorgan/contactsterm/internal/utils"
)

const (
	nameWidth  = 24
	phoneWidth = 14
)

func newListCmd(a *app) *cobra.Command {
	var (
		favoritesOnly bool
		search        string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print contacts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.store.Initialize(ctx); err != nil {
				return err
			}

			contacts, err := a.store.ListAll(ctx)
			if err != nil {
				return err
			}

			writeContacts(cmd.OutOrStdout(), models.FilterContacts(contacts, search, favoritesOnly))
			return nil
		},
	}

	cmd.Flags().BoolVar(&favoritesOnly, "favorites", false, "only favorites")
	cmd.Flags().StringVarP(&search, "search", "s", "", "filter by name or phone")

	return cmd
}

// writeContacts prints one contact per line in fixed-width columns.
func writeContacts(w io.Writer, contacts []models.Contact) {
	if len(contacts) == 0 {
		fmt.Fprintln(w, "no contacts")
		return
	}

	for _, c := range contacts {
		star := " "
		if c.Favorite {
			star = "★"
		}

		phone := c.PhoneValue()
		if phone == "" {
			phone = "-"
		}

		fmt.Fprintf(w, "%4d %s %s %s %s\n",
			c.ID,
			star,
			utils.PadString(utils.TruncateString(c.Name, nameWidth), nameWidth, ' '),
			utils.PadString(phone, phoneWidth, ' '),
			c.EmailValue(),
		)
	}

	fmt.Fprintln(w, utils.FormatCount(len(contacts), "contact", "contacts"))
}
