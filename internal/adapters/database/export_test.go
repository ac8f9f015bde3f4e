package database

var Translate = translate
