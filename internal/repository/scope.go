package repository

import (
	"database/sql"

	"github.com/jonaso220/RutaWater-Native-sub000/internal/models"
)

// Every collection is filtered by exactly one owner column: group_id for
// group members, user_id otherwise. A record never carries both.

func scopeCondition(scope models.Scope) (string, any) {
	if scope.IsGroup() {
		return "group_id = ?", scope.GroupID
	}
	return "user_id = ?", scope.UserID
}

func scopeValues(scope models.Scope) (any, any) {
	var userID, groupID any
	if scope.UserID != "" {
		userID = scope.UserID
	}
	if scope.GroupID != "" {
		groupID = scope.GroupID
	}
	return userID, groupID
}

func scanScope(userID, groupID sql.NullString) models.Scope {
	if groupID.Valid {
		return models.GroupScope(groupID.String)
	}
	return models.UserScope(userID.String)
}
