package app

// Command はaurorahバイナリのサブコマンド。
type Command string

const (
	// CommandServe はカウンタ・認証APIを提供するHTTPサーバーを起動する。
	CommandServe Command = "serve"
	// CommandHealthcheck は起動中のサーバーの/healthを1回叩き、結果を終了コードで返す。
	// シェルのないコンテナイメージでHEALTHCHECKから呼ぶ。
	CommandHealthcheck Command = "healthcheck"
)

// ParseCommand は先頭の引数をCommandに変換する。
// 引数なし・未知の値はserveとして扱う。
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return CommandServe
	}

	switch Command(args[0]) {
	case CommandHealthcheck:
		return CommandHealthcheck
	default:
		return CommandServe
	}
}
