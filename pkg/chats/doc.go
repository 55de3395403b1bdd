// Package chats provides a provider-agnostic data model for LLM chat interactions.
//
// It is organized into sub-packages:
//   - [github.com/divsmith/llm-zai/pkg/chats/role] — conversation roles (system, user, assistant)
//   - [github.com/divsmith/llm-zai/pkg/chats/content] — content parts (text, image)
//   - [github.com/divsmith/llm-zai/pkg/chats/message] — messages composed of a role and content parts
//   - [github.com/divsmith/llm-zai/pkg/chats/chat] — ordered conversation container
//
// No vendor or API code is included — chats is a foundation layer
// that the zai adapter builds on.
package chats
