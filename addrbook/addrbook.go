// Package addrbook is the local contact book: it maps human-readable names
// to payment destinations (account IDs or federation addresses) and finds
// contacts by fuzzy matching, so the send command accepts "alice" as well as
// the full destination.
//
// Contacts persist as JSON under the photon home directory.
package addrbook

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/photon-wallet/photon/resolver"
)

// Contact is one saved destination.
type Contact struct {
	Name        string `json:"name"`
	Destination string `json:"destination"`
}

type fuzzySource []Contact

func (self fuzzySource) Len() int {
	return len(self)
}

func (self fuzzySource) String(i int) string {
	return fmt.Sprintf("%s_%s", strings.Replace(self[i].Name, " ", "_", -1), self[i].Destination)
}

// Book holds the contacts of one file and writes every mutation back to it.
type Book struct {
	path     string
	contacts []Contact
}

// NewBook opens the default contact book at ~/.photon/contacts.json,
// creating an empty one when the file does not exist yet.
func NewBook() (*Book, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("couldn't locate home directory: %w", err)
	}
	return NewBookAtPath(filepath.Join(home, ".photon", "contacts.json"))
}

func NewBookAtPath(path string) (*Book, error) {
	book := &Book{path: path}
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return book, nil
	}
	if err != nil {
		return nil, fmt.Errorf("couldn't read contact book %s: %w", path, err)
	}
	if err = json.Unmarshal(content, &book.contacts); err != nil {
		return nil, fmt.Errorf("contact book %s is corrupted: %w", path, err)
	}
	return book, nil
}

func (self *Book) persist() error {
	if err := os.MkdirAll(filepath.Dir(self.path), 0o700); err != nil {
		return err
	}
	content, err := json.MarshalIndent(self.contacts, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(self.path, content, 0o600)
}

// Add saves a contact. The destination must be a valid account ID or a
// federation address; names are unique and case-insensitive.
func (self *Book) Add(name, destination string) error {
	name = strings.TrimSpace(name)
	destination = strings.TrimSpace(destination)
	if name == "" {
		return fmt.Errorf("contact name must not be empty")
	}
	if !resolver.IsAccountID(destination) && !resolver.IsFederationAddress(destination) {
		return fmt.Errorf("%q is neither an account ID nor a federation address", destination)
	}
	if _, found := self.Get(name); found {
		return fmt.Errorf("contact %q already exists", name)
	}
	self.contacts = append(self.contacts, Contact{Name: name, Destination: destination})
	sort.Slice(self.contacts, func(i, j int) bool {
		return self.contacts[i].Name < self.contacts[j].Name
	})
	return self.persist()
}

// Remove deletes the contact with the given name.
func (self *Book) Remove(name string) error {
	for i, c := range self.contacts {
		if strings.EqualFold(c.Name, name) {
			self.contacts = append(self.contacts[:i], self.contacts[i+1:]...)
			return self.persist()
		}
	}
	return fmt.Errorf("no contact named %q", name)
}

// Get returns the contact with exactly the given name, case-insensitively.
func (self *Book) Get(name string) (Contact, bool) {
	for _, c := range self.contacts {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return Contact{}, false
}

// All returns every contact, sorted by name.
func (self *Book) All() []Contact {
	result := make([]Contact, len(self.contacts))
	copy(result, self.contacts)
	return result
}

// Search fuzzy-matches query against contact names and destinations and
// returns up to 10 contacts, best match first.
func (self *Book) Search(query string) []Contact {
	source := fuzzySource(self.contacts)
	matches := fuzzy.FindFrom(strings.Replace(query, " ", "_", -1), source)
	result := []Contact{}
	for i := 0; i < 10 && i < len(matches); i++ {
		result = append(result, source[matches[i].Index])
	}
	return result
}

// ResolveInput maps a send-command destination argument to a concrete
// destination: an exact or unambiguous fuzzy contact name resolves to the
// contact's destination, anything else passes through untouched.
func (self *Book) ResolveInput(input string) string {
	if resolver.IsAccountID(input) || resolver.IsFederationAddress(input) {
		return input
	}
	if c, found := self.Get(input); found {
		return c.Destination
	}
	if matches := self.Search(input); len(matches) == 1 {
		return matches[0].Destination
	}
	return input
}
