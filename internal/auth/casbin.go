package auth

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	sqlxadapter "github.com/memwey/casbin-sqlx-adapter"
)

// RouteModel matches a role against a path regex and a method regex. Roles
// inherit through g, so "author" gets everything "anonymous" has.
const RouteModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && regexMatch(r.obj, p.obj) && regexMatch(r.act, p.act)
`

// NewEnforcer creates a Casbin enforcer whose policies live in the
// application database, in the casbin_rule table.
//
// Parameters:
//   - driverName: The name of the database driver ("sqlite3" or "mysql").
//   - dsn: The Data Source Name for the database connection.
func NewEnforcer(driverName, dsn string) (*casbin.Enforcer, error) {
	opts := &sqlxadapter.AdapterOptions{
		DriverName:     driverName,
		DataSourceName: dsn,
		TableName:      "casbin_rule",
	}
	adapter := sqlxadapter.NewAdapterFromOptions(opts)

	m, err := model.NewModelFromString(RouteModel)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	return enforcer, nil
}

// NewMemoryEnforcer creates an enforcer that keeps its policies in memory.
func NewMemoryEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(RouteModel)
	if err != nil {
		return nil, err
	}
	return casbin.NewEnforcer(m)
}
