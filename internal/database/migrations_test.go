package database

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewArchiveMigrator_UnknownDriver(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.FatalLevel) // Suppress logs during testing

	m, err := NewArchiveMigrator("bogus://archive", "../../migrations", logger)
	require.Error(t, err)
	assert.Nil(t, m)
	assert.Contains(t, err.Error(), "opening archive migrations")
}
