//go:build e2e && unix

package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuitWithQ(t *testing.T) {
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp())
	require.True(t, tf.Ready())

	require.NoError(t, tf.Quit())
	assert.NoError(t, tf.WaitExit(3*time.Second))
}

func TestQuitWithCtrlCWhileEditing(t *testing.T) {
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.StartApp())
	require.True(t, tf.Ready())

	require.NoError(t, tf.Tab(3))
	require.True(t, tf.SeePlain("Appointment Details"))
	// q is typed into the form, ctrl+c still quits
	require.NoError(t, tf.SendKeys("q"))
	require.NoError(t, tf.SendCtrlC())
	assert.NoError(t, tf.WaitExit(3*time.Second))
}
