// Copyright (C) 2026 marcin-program
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marcin-program/Inteligentny-Asystent-Sprzeda-y-AI-2026/services/assistant/datatypes"
)

func TestBuildWriterMessages_FirstRound(t *testing.T) {
	messages := BuildWriterMessages("sheet", "question?", nil)

	require.Len(t, messages, 2, "first round carries only persona and question")
	assert.Equal(t, datatypes.MessageRoleSystem, messages[0].Role)
	assert.Contains(t, messages[0].Content, "sheet")
	assert.Contains(t, messages[0].Content, "ONLY the product catalog")
	assert.Equal(t, datatypes.MessageRoleUser, messages[1].Role)
	assert.Equal(t, "question?", messages[1].Content)
}

func TestBuildWriterMessages_RetryRound(t *testing.T) {
	feedback := &RoundFeedback{PreviousAnswer: "old answer", Feedback: "wrong price"}
	messages := BuildWriterMessages("sheet", "question?", feedback)

	require.Len(t, messages, 3)
	assert.Contains(t, messages[2].Content, "old answer")
	assert.Contains(t, messages[2].Content, "wrong price")
	assert.Contains(t, messages[2].Content, "corrected answer")
}

func TestBuildCriticMessages(t *testing.T) {
	messages := BuildCriticMessages("sheet", "question?", "candidate")

	require.Len(t, messages, 2)
	assert.Contains(t, messages[0].Content, "ONLY a JSON object")
	assert.Contains(t, messages[0].Content, "sheet")
	assert.Contains(t, messages[1].Content, "question?")
	assert.Contains(t, messages[1].Content, "candidate")
}
