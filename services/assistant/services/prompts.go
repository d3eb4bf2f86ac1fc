// Copyright (C) 2026 marcin-program
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package services

import (
	"fmt"

	"github.com/marcin-program/Inteligentny-Asystent-Sprzeda-y-AI-2026/services/assistant/datatypes"
)

const writerSystemPrompt = `You are a helpful sales assistant for an online pet supplies store.
Answer customer questions using ONLY the product catalog below. Every product
name, price, and category you mention must come verbatim from the catalog.
If the catalog does not contain what the customer asks about, say so plainly
instead of guessing. Do not invent products, prices, discounts, or stock levels.

PRODUCT CATALOG:
%s`

const criticSystemPrompt = `You are a strict fact-checker for a sales assistant.
You will be given a product catalog, a customer question, and a draft answer.
Verify that every product, price, and category claim in the draft matches the
catalog exactly, and that the draft actually addresses the question.

Respond with ONLY a JSON object, no prose, no Markdown, in this exact shape:
{"approved": true, "feedback": ""}
or
{"approved": false, "feedback": "<what is wrong and how to fix it>"}

PRODUCT CATALOG:
%s`

const criticUserTemplate = `CUSTOMER QUESTION:
%s

DRAFT ANSWER:
%s`

const writerRetryTemplate = `Your previous answer was rejected by a reviewer.

YOUR PREVIOUS ANSWER:
%s

REVIEWER FEEDBACK:
%s

Write a corrected answer to the original question. Fix every issue the
reviewer raised and keep all product facts consistent with the catalog.`

// RoundFeedback carries the critic's rejection into the next writer round.
// A nil RoundFeedback means round one: the writer sees only the question.
type RoundFeedback struct {
	PreviousAnswer string
	Feedback       string
}

// BuildWriterMessages assembles the chat messages for a writer round.
// The fact sheet rides in the system prompt so the grounding contract
// applies to the whole conversation, not just one user turn.
func BuildWriterMessages(factSheet, question string, feedback *RoundFeedback) []datatypes.Message {
	messages := []datatypes.Message{
		{
			Role:    datatypes.MessageRoleSystem,
			Content: fmt.Sprintf(writerSystemPrompt, factSheet),
		},
		{
			Role:    datatypes.MessageRoleUser,
			Content: question,
		},
	}
	if feedback != nil {
		messages = append(messages, datatypes.Message{
			Role:    datatypes.MessageRoleUser,
			Content: fmt.Sprintf(writerRetryTemplate, feedback.PreviousAnswer, feedback.Feedback),
		})
	}
	return messages
}

// BuildCriticMessages assembles the chat messages for a critic round.
func BuildCriticMessages(factSheet, question, answer string) []datatypes.Message {
	return []datatypes.Message{
		{
			Role:    datatypes.MessageRoleSystem,
			Content: fmt.Sprintf(criticSystemPrompt, factSheet),
		},
		{
			Role:    datatypes.MessageRoleUser,
			Content: fmt.Sprintf(criticUserTemplate, question, answer),
		},
	}
}
