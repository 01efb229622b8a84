package dsl

// GetHarmonyDSLGrammar returns the Lark grammar definition for the Harmony DSL.
// Statements are separated by "; " and run in order against shared state
// (current key and random generator).
func GetHarmonyDSLGrammar() string {
	return `
// Harmony DSL Grammar - Roman numeral analysis and generation
// SYNTAX:
//   key(name="D minor")
//   chord(roman="V65/IV")
//   chord(roman="bVII", key="C")
//   pool(roman="V7")
//   progression(measures=8, complexity=5)
//   rhythm(meter="6/8", complexity=5, measures=2)
//   seed(value=42)

// ---------- Start rule ----------
start: statement (";" SP statement)*

statement: key_call
         | chord_call
         | pool_call
         | progression_call
         | rhythm_call
         | seed_call

// ---------- Key: select the current key ----------
key_call: "key" "(" key_params ")"

key_params: key_named_params

key_named_params: key_named_param ("," SP key_named_param)*
key_named_param: "name" "=" STRING

// ---------- Chord: resolve a Roman numeral ----------
chord_call: "chord" "(" chord_params ")"

chord_params: chord_named_params

chord_named_params: chord_named_param ("," SP chord_named_param)*
chord_named_param: "roman" "=" STRING
                 | "key" "=" STRING   // Overrides the current key for this call only

// ---------- Pool: chord notes extended over the keyboard ----------
pool_call: "pool" "(" pool_params ")"

pool_params: pool_named_params

pool_named_params: pool_named_param ("," SP pool_named_param)*
pool_named_param: "roman" "=" STRING
                | "key" "=" STRING

// ---------- Progression: generate Roman numerals in the current key ----------
progression_call: "progression" "(" progression_params ")"

progression_params: progression_named_params

progression_named_params: progression_named_param ("," SP progression_named_param)*
progression_named_param: "measures" "=" NUMBER
                       | "complexity" "=" NUMBER
                       | "key" "=" STRING

// ---------- Rhythm: generate per-measure rhythms ----------
rhythm_call: "rhythm" "(" rhythm_params ")"

rhythm_params: rhythm_named_params

rhythm_named_params: rhythm_named_param ("," SP rhythm_named_param)*
rhythm_named_param: "meter" "=" STRING
                  | "complexity" "=" NUMBER
                  | "measures" "=" NUMBER

// ---------- Seed: reseed the generator ----------
seed_call: "seed" "(" seed_params ")"

seed_params: seed_named_params

seed_named_params: seed_named_param ("," SP seed_named_param)*
seed_named_param: "value" "=" NUMBER

// ---------- Terminals ----------
SP: " "+
STRING: /"[^"]*"/
NUMBER: /-?\d+(\.\d+)?/
`
}
