// Package dedupe tracks recently processed Telegram update IDs so the bot
// never answers the same update twice when polling redelivers it.
package dedupe
