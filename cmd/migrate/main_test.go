package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunRejectsUnknownCommand(t *testing.T) {
	err := run(context.Background(), "postgres://unused", "sideways")
	assert.ErrorContains(t, err, "unknown command")
}

func TestRunRequiresDatabaseURL(t *testing.T) {
	err := run(context.Background(), "", "up")
	assert.ErrorContains(t, err, "DATABASE_URL")
}
