// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package emoji provides the keyword index behind the emoji tooltip.
package emoji

// Entry binds one native emoji to its shortcode name and search keywords.
type Entry struct {
	Native   string
	Name     string
	Keywords []string
}

// builtinEntries is the base (English) keyword set. The first keyword listed
// for a name wins ties on equal prefix match.
var builtinEntries = []Entry{
	{"😄", "smile", []string{"smile", "happy", "joy", "grin"}},
	{"😃", "smiley", []string{"smiley", "happy", "grin"}},
	{"😀", "grinning", []string{"grinning", "grin", "happy"}},
	{"😂", "joy", []string{"joy", "laugh", "tears", "lol"}},
	{"🤣", "rofl", []string{"rofl", "laugh", "rolling"}},
	{"😊", "blush", []string{"blush", "smile", "shy"}},
	{"😉", "wink", []string{"wink", "flirt"}},
	{"😍", "heart_eyes", []string{"heart_eyes", "love", "crush"}},
	{"😘", "kissing_heart", []string{"kissing_heart", "kiss", "love"}},
	{"😎", "sunglasses", []string{"sunglasses", "cool"}},
	{"🤔", "thinking", []string{"thinking", "hmm", "think"}},
	{"😐", "neutral_face", []string{"neutral_face", "meh"}},
	{"😢", "cry", []string{"cry", "sad", "tear"}},
	{"😭", "sob", []string{"sob", "cry", "bawl"}},
	{"😡", "rage", []string{"rage", "angry", "mad"}},
	{"😱", "scream", []string{"scream", "shock", "fear"}},
	{"🥳", "partying_face", []string{"partying_face", "party", "celebrate"}},
	{"😴", "sleeping", []string{"sleeping", "sleep", "zzz"}},
	{"🙃", "upside_down", []string{"upside_down", "silly"}},
	{"😇", "innocent", []string{"innocent", "angel", "halo"}},
	{"🙂", "slightly_smiling", []string{"slightly_smiling", "smile"}},
	{"👍", "thumbsup", []string{"thumbsup", "+1", "yes", "ok", "like"}},
	{"👎", "thumbsdown", []string{"thumbsdown", "-1", "no", "dislike"}},
	{"👋", "wave", []string{"wave", "hello", "hi", "bye"}},
	{"👏", "clap", []string{"clap", "applause", "bravo"}},
	{"🙏", "pray", []string{"pray", "please", "thanks", "hope"}},
	{"💪", "muscle", []string{"muscle", "strong", "flex"}},
	{"🤝", "handshake", []string{"handshake", "deal", "agree"}},
	{"👌", "ok_hand", []string{"ok_hand", "ok", "perfect"}},
	{"✌️", "v", []string{"v", "victory", "peace"}},
	{"❤️", "heart", []string{"heart", "love", "red"}},
	{"💔", "broken_heart", []string{"broken_heart", "heartbreak", "sad"}},
	{"🔥", "fire", []string{"fire", "hot", "lit", "flame"}},
	{"✨", "sparkles", []string{"sparkles", "shiny", "magic"}},
	{"⭐", "star", []string{"star", "favorite"}},
	{"💯", "100", []string{"100", "hundred", "perfect"}},
	{"🎉", "tada", []string{"tada", "party", "celebrate", "congrats"}},
	{"🎂", "birthday", []string{"birthday", "cake", "celebrate"}},
	{"🎁", "gift", []string{"gift", "present"}},
	{"🚀", "rocket", []string{"rocket", "launch", "ship", "fast"}},
	{"✅", "white_check_mark", []string{"white_check_mark", "check", "done", "yes"}},
	{"❌", "x", []string{"x", "cross", "no", "wrong"}},
	{"⚡", "zap", []string{"zap", "lightning", "fast"}},
	{"☀️", "sunny", []string{"sunny", "sun", "weather"}},
	{"🌙", "crescent_moon", []string{"crescent_moon", "moon", "night"}},
	{"🌧️", "rain", []string{"rain", "weather", "cloud"}},
	{"❄️", "snowflake", []string{"snowflake", "snow", "cold", "winter"}},
	{"🐱", "cat", []string{"cat", "kitten", "meow"}},
	{"🐶", "dog", []string{"dog", "puppy", "woof"}},
	{"🍕", "pizza", []string{"pizza", "food", "slice"}},
	{"☕", "coffee", []string{"coffee", "cafe", "espresso"}},
	{"🍺", "beer", []string{"beer", "drink", "pub"}},
	{"👀", "eyes", []string{"eyes", "look", "watch", "see"}},
	{"🤷", "shrug", []string{"shrug", "dunno", "whatever"}},
	{"💀", "skull", []string{"skull", "dead", "death"}},
	{"🤦", "facepalm", []string{"facepalm", "smh", "doh"}},
	{"📎", "paperclip", []string{"paperclip", "attach", "file"}},
	{"📷", "camera", []string{"camera", "photo", "picture"}},
	{"🎵", "musical_note", []string{"musical_note", "music", "note", "song"}},
	{"⏰", "alarm_clock", []string{"alarm_clock", "alarm", "time", "clock"}},
}
