// Package template provides the template catalog and project builder.
package template

import (
	"time"

	"github.com/google/uuid"

	"github.com/joss/codecell/internal/logging"
	"github.com/joss/codecell/internal/project"
)

var log = logging.New("template")

// Build constructs a fresh Project from a built-in template type. Pure
// aside from id/timestamp assignment: the file set and starter content for
// a given type are fixed, and UI surfaces key off the exact file names.
// An unrecognized type yields a project with no files and a warning log.
func Build(t project.Type, cfg *project.WebConfig) project.Project {
	now := time.Now()
	p := project.Project{
		ID:        uuid.NewString(),
		Name:      "Untitled",
		Template:  t,
		Files:     starterFiles(t),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if t == project.TypeWeb {
		if cfg == nil {
			cfg = &project.WebConfig{Markup: "html", Styling: "css", Script: "js"}
		}
		p.WebConfig = cfg
	}
	if len(p.Files) == 0 {
		log.Warn("unknown_template", map[string]any{"template": string(t)}, nil)
	}
	return p
}

// FromCustom constructs a Project from a user-saved template. The stored
// files are cloned verbatim, never regenerated, so user customizations
// survive re-instantiation.
func FromCustom(ct project.CustomTemplate) project.Project {
	now := time.Now()
	return project.Project{
		ID:        uuid.NewString(),
		Name:      "Untitled",
		Template:  ct.Template,
		WebConfig: cloneWebConfig(ct.WebConfig),
		Files:     project.CloneFiles(ct.Files),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func cloneWebConfig(cfg *project.WebConfig) *project.WebConfig {
	if cfg == nil {
		return nil
	}
	c := *cfg
	return &c
}

func starterFiles(t project.Type) []project.File {
	switch t {
	case project.TypeWeb:
		return []project.File{
			{Name: "index.html", Language: "html", Content: starterHTML},
			{Name: "style.css", Language: "css", Content: starterCSS},
			{Name: "script.js", Language: "javascript", Content: starterWebJS},
		}
	case project.TypeNode:
		return []project.File{{Name: "index.js", Language: "javascript", Content: starterNode}}
	case project.TypePython:
		return []project.File{{Name: "main.py", Language: "python", Content: starterPython}}
	case project.TypeRust:
		return []project.File{{Name: "main.rs", Language: "rust", Content: starterRust}}
	case project.TypeJava:
		return []project.File{{Name: "Main.java", Language: "java", Content: starterJava}}
	case project.TypeTypescript:
		return []project.File{{Name: "index.ts", Language: "typescript", Content: starterTypescript}}
	default:
		return nil
	}
}

const starterHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>CodeCell</title>
  <link rel="stylesheet" href="style.css">
</head>
<body>
  <h1>Hello, CodeCell!</h1>
  <p id="output">Edit and run to see changes.</p>
  <script src="script.js"></script>
</body>
</html>
`

const starterCSS = `body {
  font-family: system-ui, sans-serif;
  max-width: 640px;
  margin: 4rem auto;
  padding: 0 1rem;
  color: #1f2937;
}

h1 {
  color: #4f46e5;
}
`

const starterWebJS = `const output = document.getElementById('output');

const greetings = ['Hello', 'Hola', 'Bonjour', 'Ciao'];
let i = 0;

setInterval(() => {
  output.textContent = greetings[i % greetings.length] + ', CodeCell!';
  i++;
}, 1000);
`

const starterNode = `console.log('Hello, CodeCell!');

// A short example: sum the squares of 1..5
const squares = [1, 2, 3, 4, 5].map(n => n * n);
const total = squares.reduce((acc, n) => acc + n, 0);
console.log('Sum of squares:', total);
`

const starterPython = `print("Hello, CodeCell!")

# A short example: sum the squares of 1..5
squares = [n * n for n in range(1, 6)]
print("Sum of squares:", sum(squares))
`

const starterRust = `fn main() {
    println!("Hello, CodeCell!");

    // A short example: sum the squares of 1..5
    let total: i32 = (1..=5).map(|n| n * n).sum();
    println!("Sum of squares: {}", total);
}
`

const starterJava = `public class Main {
    public static void main(String[] args) {
        System.out.println("Hello, CodeCell!");

        // A short example: sum the squares of 1..5
        int total = 0;
        for (int n = 1; n <= 5; n++) {
            total += n * n;
        }
        System.out.println("Sum of squares: " + total);
    }
}
`

const starterTypescript = `const greeting: string = 'Hello, CodeCell!';
console.log(greeting);

// A short example: sum the squares of 1..5
const squares: number[] = [1, 2, 3, 4, 5].map(n => n * n);
const total = squares.reduce((acc, n) => acc + n, 0);
console.log('Sum of squares:', total);
`
