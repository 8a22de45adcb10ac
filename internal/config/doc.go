// Package config は環境変数からアプリケーション設定を読み込む。
//
// 起動時に1回だけLoadを呼び出し、以降はイミュータブルとして扱う。
// .envファイルの読み込みはapp.Initで行い、このパッケージは環境変数のみを参照する。
package config
