// Package fuzztests houses Go fuzz harnesses for the program loading path
// (fixture TOML -> rendered module -> expression lexer/parser). Its goal is
// to smoke test robustness and guard against panics or hangs on arbitrary
// inputs.
//
// Назначение: прогонять произвольные байты через лексер, парсер выражений и
// program.Parse.
//
// Не делает: семантический анализ, запись файлов, выполнение CLI.
package fuzztests
