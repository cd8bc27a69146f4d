package models_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rostersync/rostersync/common/models"
)

func Test_userID(t *testing.T) {
	id := models.NewUserID()
	json, err := id.MarshalJSON()
	require.Nil(t, err)
	id2 := models.UserID{}
	err = id2.UnmarshalJSON(json)
	require.Nil(t, err)
	require.Equal(t, id, id2)
}

func Test_parseResourceID(t *testing.T) {
	id := models.NewEnrolmentID()
	parsed, err := models.ParseResourceID(id.String())
	require.Nil(t, err)
	require.True(t, parsed.Equal(id.ResourceID))
	require.Equal(t, models.EnrolmentResourceKind, parsed.Kind())

	_, err = models.ParseResourceID("no-separator")
	require.NotNil(t, err)
}
