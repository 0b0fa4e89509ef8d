package auth

import (
	"blogicum/internal/logger"
	"fmt"

	"github.com/casbin/casbin/v2"
)

const (
	// RoleAnonymous is the role of a request without a logged-in user.
	RoleAnonymous = "anonymous"
	// RoleAuthor is the role of every logged-in user.
	RoleAuthor = "author"
)

// DefaultPolicies are the route rules the blog needs to work. Paths are
// anchored regular expressions, methods are regular expressions too.
var DefaultPolicies = [][]string{
	// Anyone can read and sign in.
	{RoleAnonymous, `^/$`, "GET"},
	{RoleAnonymous, `^/category/[^/]+/$`, "GET"},
	{RoleAnonymous, `^/profile/[^/]+/$`, "GET"},
	{RoleAnonymous, `^/posts/[0-9]+/$`, "GET"},
	{RoleAnonymous, `^/auth/.*$`, "^(GET|POST)$"},
	{RoleAnonymous, `^/(robots\.txt|sitemap\.xml)$`, "GET"},

	// Authors write.
	{RoleAuthor, `^/posts/create/$`, "^(GET|POST)$"},
	{RoleAuthor, `^/posts/[0-9]+/(edit|delete)/$`, "^(GET|POST)$"},
	{RoleAuthor, `^/posts/[0-9]+/comment/$`, "POST"},
	{RoleAuthor, `^/posts/[0-9]+/(edit|delete)_comment/[0-9]+/$`, "^(GET|POST)$"},
	{RoleAuthor, `^/edit_profile/[^/]+/$`, "^(GET|POST)$"},
}

// SeedDefaultPolicies ensures that the application has a baseline set of authorization rules.
// It checks if each default policy exists before adding it, making the operation idempotent
// and safe to run on every application start.
func SeedDefaultPolicies(e casbin.IEnforcer, log logger.Logger) {
	log.Info("Seeding default authorization policies...")

	for _, p := range DefaultPolicies {
		if has, _ := e.HasPolicy(p); !has {
			if _, err := e.AddPolicy(p); err != nil {
				log.Error(err, fmt.Sprintf("Failed to add policy %v", p))
			}
		}
	}

	// Granting the 'author' role all permissions of the 'anonymous' role.
	if has, _ := e.HasRoleForUser(RoleAuthor, RoleAnonymous); !has {
		if _, err := e.AddRoleForUser(RoleAuthor, RoleAnonymous); err != nil {
			log.Error(err, "Failed to add role 'author' -> 'anonymous'")
		}
	}
	log.Info("Policy seeding complete.")
}
