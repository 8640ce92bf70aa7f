package types

import (
	"sort"
	"strings"
)

var registry = map[string]func() any{
	"account":      func() any { return new(Account) },
	"album":        func() any { return new(Album) },
	"application":  func() any { return new(Application) },
	"comment":      func() any { return new(Comment) },
	"conversation": func() any { return new(Conversation) },
	"event":        func() any { return new(Event) },
	"group":        func() any { return new(Group) },
	"insight":      func() any { return new(Insight) },
	"message":      func() any { return new(Message) },
	"page":         func() any { return new(Page) },
	"photo":        func() any { return new(Photo) },
	"picture":      func() any { return new(Picture) },
	"place":        func() any { return new(Place) },
	"post":         func() any { return new(Post) },
	"user":         func() any { return new(User) },
	"video":        func() any { return new(Video) },
}

// New returns a pointer to a zero value of the named resource type. Names are
// case-insensitive.
func New(name string) (any, bool) {
	f, ok := registry[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return f(), true
}

// Names lists the registered resource names in order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
