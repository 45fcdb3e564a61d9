package mcpserver

// NoteFormat describes how Lexicon lays out vocabulary notes.
const NoteFormat = `# Lexicon Vocabulary Note Format

Each looked-up word has one Markdown note in the vault. The note name comes
from the note name pattern setting (default ` + "`" + `[[vocab.{}|{}]]` + "`" + `):
` + "`" + `{}` + "`" + ` is replaced by the word, and the link target plus ` + "`" + `.md` + "`" + ` is the
file name. With the default pattern the word "lucid" is linked as
` + "`" + `[[vocab.lucid|lucid]]` + "`" + ` and stored in ` + "`" + `vocab.lucid.md` + "`" + `.

## Structure

` + "```" + `markdown
# lucid

**lucid** (adjective)

Expressed clearly; easy to understand.

---

**Definition:** bright or luminous.
` + "```" + `

## Rules

1. **Title.** A new note starts with ` + "`" + `# word` + "`" + ` unless the generated content
   already opens with a heading or bold text, or has a short first line naming
   the word.
2. **Sections.** Every later lookup of the same word appends a section after a
   ` + "`" + `---` + "`" + ` line. Existing content is never rewritten or removed.
3. **Placeholders.** When no definition could be generated the section holds an
   italic explanation instead (missing API key, invalid key, empty answer or
   provider error). Look the word up again to add a real definition.
4. **Encoding** is UTF-8 with a trailing newline.
`
