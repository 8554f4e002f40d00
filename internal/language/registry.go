// Package language holds the static table of languages the remote execution
// service accepts, keyed by the service's own language ids.
package language

// Descriptor describes one supported language.
// ID is the remote service's language id and must match what the service defines.
type Descriptor struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Label         string `json:"label"`
	EditorMode    string `json:"editor_mode"`
	DefaultSource string `json:"default_source"`
}

var languages = []Descriptor{
	{
		ID:         71,
		Name:       "Python",
		Label:      "Python (3.10)",
		EditorMode: "python",
		DefaultSource: `# Python Code
def greet(name):
    return f"Hello, {name}!"

# Take input from user
name = input()
result = greet(name)
print(result)
`,
	},
	{
		ID:         50,
		Name:       "C",
		Label:      "C (GCC 9.2.0)",
		EditorMode: "c",
		DefaultSource: `// C Code
#include <stdio.h>

int main() {
    char name[100];

    // Take input from user
    scanf("%s", name);
    printf("Hello, %s!\n", name);

    return 0;
}
`,
	},
	{
		ID:         54,
		Name:       "C++",
		Label:      "C++ (GCC 9.2.0)",
		EditorMode: "cpp",
		DefaultSource: `// C++ Code
#include <iostream>
#include <string>
using namespace std;

int main() {
    string name;

    // Take input from user
    cin >> name;
    cout << "Hello, " << name << "!" << endl;

    return 0;
}
`,
	},
	{
		ID:         62,
		Name:       "Java",
		Label:      "Java (OpenJDK 13.0.1)",
		EditorMode: "java",
		DefaultSource: `// Java Code
import java.util.Scanner;

public class Main {
    public static void main(String[] args) {
        Scanner scanner = new Scanner(System.in);

        // Take input from user
        String name = scanner.nextLine();
        System.out.println("Hello, " + name + "!");

        scanner.close();
    }
}
`,
	},
	{
		ID:         63,
		Name:       "JavaScript",
		Label:      "JavaScript (Node.js 12.14.0)",
		EditorMode: "javascript",
		DefaultSource: "// JavaScript Code\n" +
			"// Note: For input, use the stdin input box below\n\n" +
			"const readline = require('readline');\n\n" +
			"const rl = readline.createInterface({\n" +
			"  input: process.stdin,\n" +
			"  output: process.stdout\n" +
			"});\n\n" +
			"rl.on('line', (name) => {\n" +
			"  console.log(`Hello, ${name}!`);\n" +
			"  rl.close();\n" +
			"});\n",
	},
}

// ByID returns the descriptor registered under the remote service language id.
func ByID(id int) (Descriptor, bool) {
	for _, l := range languages {
		if l.ID == id {
			return l, true
		}
	}
	return Descriptor{}, false
}

// ByName returns the descriptor with the exact display name (e.g. "C++").
func ByName(name string) (Descriptor, bool) {
	for _, l := range languages {
		if l.Name == name {
			return l, true
		}
	}
	return Descriptor{}, false
}

// All returns a copy of the table in declaration order.
func All() []Descriptor {
	out := make([]Descriptor, len(languages))
	copy(out, languages)
	return out
}
