package csvfile

import (
	"context"
	"fmt"
	"strings"

	"grocer/internal/core"
)

// userRow accepts both "type" and "role" as the role column.
type userRow struct {
	Username string `csv:"username"`
	Password string `csv:"password"`
	Type     string `csv:"type"`
	Role     string `csv:"role"`
}

// UserFile reads credentials from username,password,type. It is read-only.
type UserFile struct {
	Path string
}

func NewUserFile(path string) *UserFile {
	return &UserFile{Path: path}
}

// LoadUsers implements store.UserStore
func (s *UserFile) LoadUsers(_ context.Context) ([]core.User, []core.RowIssue, error) {
	var rows []*userRow
	issues, err := readRows(s.Path, &rows)
	if err != nil {
		return nil, nil, err
	}

	users := make([]core.User, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	for i, r := range rows {
		name := strings.TrimSpace(r.Username)
		if name == "" {
			issues = append(issues, malformed(s.Path, i+1, "empty username"))
			continue
		}
		if _, dup := seen[name]; dup {
			issues = append(issues, malformed(s.Path, i+1, fmt.Sprintf("duplicate username %q", name)))
			continue
		}
		roleCol := r.Type
		if strings.TrimSpace(roleCol) == "" {
			roleCol = r.Role
		}
		role, err := core.ParseRole(roleCol)
		if err != nil {
			issues = append(issues, malformed(s.Path, i+1, err.Error()))
			continue
		}
		seen[name] = struct{}{}
		users = append(users, core.User{Username: name, Password: r.Password, Role: role})
	}
	return users, issues, nil
}
