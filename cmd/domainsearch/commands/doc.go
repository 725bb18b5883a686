// Package commands описывает CLI domainsearch.
//
// Команды
//
//   - serve       HTTP API, эндпоинт метрик и уборщик сессий
//   - search      один поиск по каталогу с выводом страницы результатов
//   - extensions  список доступных расширений
//
// Флаги каталога, задержки и логирования общие для всех команд.
// Их значения по умолчанию берутся из переменных DOMAINSEARCH_*.
package commands
