package cmd

import (
	"github.com/spf13/cobra"

	"github.com/photon-wallet/photon/addrbook"
	"github.com/photon-wallet/photon/ui"
)

func openBook(u ui.UI) *addrbook.Book {
	book, err := addrbook.NewBook()
	if err != nil {
		u.Error("Couldn't open the contact book: %s", err)
		return nil
	}
	return book
}

func printContacts(u ui.UI, contacts []addrbook.Contact) {
	if len(contacts) == 0 {
		u.Info("No contacts.")
		return
	}
	rows := [][]string{}
	for _, c := range contacts {
		rows = append(rows, []string{c.Name, c.Destination})
	}
	u.Table([]string{"Name", "Destination"}, rows)
}

func init() {
	var addrCmd = &cobra.Command{
		Use:   "addr",
		Short: "Manage the local contact book",
		Long: `Manage the contact book the send command uses to look destinations up by
name. Contacts live in ~/.photon/contacts.json.`,
		Run: func(cmd *cobra.Command, args []string) {
			u := ui.NewTerminalUI()
			if book := openBook(u); book != nil {
				printContacts(u, book.All())
			}
		},
	}

	var addCmd = &cobra.Command{
		Use:   "add <name> <account id | federation address>",
		Short: "Save a contact",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			u := ui.NewTerminalUI()
			book := openBook(u)
			if book == nil {
				return
			}
			if err := book.Add(args[0], args[1]); err != nil {
				u.Error("Couldn't save the contact: %s", err)
				return
			}
			u.Success("Saved %s.", args[0])
		},
	}

	var rmCmd = &cobra.Command{
		Use:   "rm <name>",
		Short: "Delete a contact",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			u := ui.NewTerminalUI()
			book := openBook(u)
			if book == nil {
				return
			}
			if err := book.Remove(args[0]); err != nil {
				u.Error("%s", err)
				return
			}
			u.Success("Deleted %s.", args[0])
		},
	}

	var searchCmd = &cobra.Command{
		Use:   "search <query>",
		Short: "Fuzzy-search contacts by name or destination",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			u := ui.NewTerminalUI()
			if book := openBook(u); book != nil {
				printContacts(u, book.Search(args[0]))
			}
		},
	}

	addrCmd.AddCommand(addCmd, rmCmd, searchCmd)
	rootCmd.AddCommand(addrCmd)
}
