package parser

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

func (p *Parser) setupTypeScript() {
	parser := tree_sitter.NewParser()
	languagePtr := tree_sitter_typescript.LanguageTypescript()
	language := tree_sitter.NewLanguage(languagePtr)
	err := parser.SetLanguage(language)
	if err != nil {
		return
	}

	p.parsers[".ts"] = parser
	p.parsers[".tsx"] = parser

	queryStr := `
        (function_declaration name: (identifier) @function.name) @function
        (generator_function_declaration name: (identifier) @function.name) @function
        (method_definition name: (property_identifier) @method.name) @method
        (variable_declarator
            name: (identifier) @function.name
            value: [(arrow_function) (function_expression)]) @function
        (variable_declarator
            name: (identifier) @variable.name) @variable
        (class_declaration name: (type_identifier) @class.name) @class
        (interface_declaration name: (type_identifier) @interface.name) @interface
        (type_alias_declaration name: (type_identifier) @type.name) @type
        (enum_declaration name: (identifier) @type.name) @type
        (import_statement source: (string) @import.source) @import
    `
	query, _ := tree_sitter.NewQuery(language, queryStr)
	// Check if query was actually created (tree-sitter Go binding bug)
	if query != nil {
		p.queries[".ts"] = query
		p.queries[".tsx"] = query
	}
}

func (p *Parser) setupJavaScript() {
	parser := tree_sitter.NewParser()
	languagePtr := tree_sitter_javascript.Language()
	language := tree_sitter.NewLanguage(languagePtr)
	err := parser.SetLanguage(language)
	if err != nil {
		return
	}

	p.parsers[".js"] = parser
	p.parsers[".jsx"] = parser

	queryStr := `
        (function_declaration name: (identifier) @function.name) @function
        (generator_function_declaration name: (identifier) @function.name) @function
        (variable_declarator
            name: (identifier) @function.name
            value: [(arrow_function) (function_expression) (generator_function)]) @function
        (variable_declarator
            name: (identifier) @variable.name) @variable
        (method_definition name: (property_identifier) @method.name) @method
        (class_declaration name: (identifier) @class.name) @class
        (import_statement source: (string) @import.source) @import
    `
	query, _ := tree_sitter.NewQuery(language, queryStr)
	// Check if query was actually created (tree-sitter Go binding bug)
	if query != nil {
		p.queries[".js"] = query
		p.queries[".jsx"] = query
	}
}

func (p *Parser) setupPython() {
	parser := tree_sitter.NewParser()
	languagePtr := tree_sitter_python.Language()
	language := tree_sitter.NewLanguage(languagePtr)
	err := parser.SetLanguage(language)
	if err != nil {
		return
	}

	p.parsers[".py"] = parser

	queryStr := `
        (class_definition
            body: (block
                (function_definition name: (identifier) @method.name) @method))
        (function_definition name: (identifier) @function.name) @function
        (class_definition name: (identifier) @class.name) @class
        (expression_statement
            (assignment left: (identifier) @variable.name)) @variable
        (import_statement) @import
        (import_from_statement) @import
    `
	query, _ := tree_sitter.NewQuery(language, queryStr)
	// Check if query was actually created (tree-sitter Go binding bug)
	if query != nil {
		p.queries[".py"] = query
	}
}
