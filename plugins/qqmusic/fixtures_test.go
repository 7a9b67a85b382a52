package qqmusic

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/liuran001/hymusic/core/transport"
)

const searchSongsJSONP = `callback({"code":0,"data":{"song":{"curnum":4,"list":[
	{"songid":101,"songmid":"001song1","songname":"test one","interval":200,"pubtime":1262275200,
	 "albumid":11,"albummid":"001alb1","albumname":"Alpha Album","singer":[{"id":21,"mid":"001sing1","name":"Alpha"}]},
	{"songid":102,"songmid":"001song2","songname":"test two","interval":210,
	 "albumid":12,"albummid":"001alb2","albumname":"Beta Album","singer":[{"id":22,"mid":"001sing2","name":"Beta"},{"id":21,"mid":"001sing1","name":"Alpha"}]},
	{"songid":103,"songmid":"001song3","songname":"test {three}","interval":220,
	 "albumid":11,"albummid":"001alb1","albumname":"Alpha Album","singer":[{"id":21,"mid":"001sing1","name":"Alpha"}]},
	{"songid":104,"songmid":"001song4","songname":"test four","interval":230,
	 "albumid":13,"albummid":"","albumname":"","singer":[{"id":21,"mid":"001sing1","name":"Alpha"}]}
]}}})`

const searchAlbumsJSON = `{"code":0,"data":{"album":{"list":[
	{"albumID":11,"albumMID":"001alb1","albumName":"Alpha Album","publicTime":"2010-01-01",
	 "singerID":21,"singerMID":"001sing1","singerName":"Alpha"},
	{"albumID":14,"albumMID":"001alb4","albumName":"Solo","publicTime":"0000-00-00"}
]}}}`

const searchPlaylistsJSON = `{"code":0,"data":{"sum":1,"list":[
	{"dissid":"7001","dissname":"Focus","imgurl":"https://qpic.y.qq.com/focus.jpg","listennum":900,"song_count":2,
	 "creator":{"name":"alice","qq":0}}
]}}`

const searchNoHitsJSON = `{"code":0,"data":{"song":{"curnum":0}}}`

const songDetailJSON = `{"code":0,"data":[{
	"id":105,"mid":"002song5","name":"晴天","interval":269,"time_public":"2003-07-31",
	"singer":[{"id":4558,"mid":"0025NhlN2yWrP4","name":"周杰伦"}],
	"album":{"id":8220,"mid":"000MkMni19ClKG","name":"叶惠美"}
}]}`

const songMissingJSON = `{"code":0,"data":[]}`

const albumDetailJSON = `{"code":0,"data":{
	"id":8220,"mid":"000MkMni19ClKG","name":"叶惠美","aDate":"2003-07-31","company":"杰威尔",
	"singerid":4558,"singermid":"0025NhlN2yWrP4","singername":"周杰伦",
	"list":[
		{"songid":105,"songmid":"002song5","songname":"晴天","interval":269,
		 "albumid":8220,"albummid":"000MkMni19ClKG","albumname":"叶惠美","singer":[{"id":4558,"mid":"0025NhlN2yWrP4","name":"周杰伦"}]}
	]
}}`

const artistDetailJSON = `{"code":0,"data":{
	"singer_id":4558,"singer_mid":"0025NhlN2yWrP4","singer_name":"周杰伦","total":2,
	"list":[
		{"albumID":8220,"albumMID":"000MkMni19ClKG","albumName":"叶惠美","pubTime":"2003-07-31",
		 "singerID":4558,"singerMID":"0025NhlN2yWrP4","singerName":"周杰伦"},
		{"albumID":8219,"albumMID":"002fRO0N4FftzY","albumName":"范特西"}
	]
}}`

const playlistDetailJSONP = `jsonCallback({"code":0,"subcode":0,"cdlist":[{
	"disstid":"7001","dissname":"Focus","logo":"https://qpic.y.qq.com/focus_big.jpg","total_song_num":2,"visitnum":901,
	"uin":"10001","nickname":"alice","headurl":"https://qlogo.cn/alice.jpg",
	"songlist":[
		{"songid":101,"songmid":"001song1","songname":"test one","interval":200,
		 "albumid":11,"albummid":"001alb1","albumname":"Alpha Album","singer":[{"id":21,"mid":"001sing1","name":"Alpha"}]},
		{"songid":102,"songmid":"001song2","songname":"test two","interval":210,
		 "albumid":12,"albummid":"001alb2","albumname":"Beta Album","singer":[{"id":22,"mid":"001sing2","name":"Beta"}]}
	]
}]})`

const categoriesJSON = `{"code":0,"data":{"categories":[
	{"categoryGroupName":"语种","items":[{"categoryId":165,"categoryName":"国语"},{"categoryId":167,"categoryName":"英语"}]},
	{"categoryGroupName":"风格","items":[{"categoryId":15,"categoryName":"流行"}]}
]}}`

const hubWindow0 = `{"code":0,"data":{"sin":0,"ein":29,"list":[
	{"dissid":"3001","dissname":"Morning","imgurl":"https://qpic.y.qq.com/m.jpg","listennum":10,"creator":{"name":"alice"}},
	{"dissid":"3002","dissname":"Night","imgurl":"https://qpic.y.qq.com/n.jpg","listennum":20,"creator":{"name":"bob"}}
]}}`

const hubWindow30 = `{"code":0,"data":{"sin":30,"ein":59,"list":[
	{"dissid":"3003","dissname":"Rain","imgurl":"https://qpic.y.qq.com/r.jpg","listennum":30,"creator":{"name":"carol"}}
]}}`

const hubEmpty = `{"code":0,"data":{"list":[]}}`

const lyricJSONP = `MusicJsonCallback_lrc({"retcode":0,"code":0,"subcode":0,
	"lyric":"WzAwOjAxLjAwXeaZtOWkqQ==","trans":"WzAwOjAxLjAwXVN1bm55"})`

const lyricMissingJSON = `{"retcode":-1901,"code":-1901,"subcode":-1901}`

const fileInfoJSON = `{"code":0,"req":{"code":0,"data":{"track_info":{"file":{
	"media_mid":"003media1","size_96aac":1200000,"size_128mp3":3200000,"size_320mp3":0,"size_flac":0
}}}}}`

// fakeFetcher serves canned bodies keyed by path. Search is keyed by its
// t parameter, the hub by its sin window and signed requests by module.
type fakeFetcher struct {
	mu        sync.Mutex
	responses map[string]string
	hub       map[string]string
	purls     map[string]string
	calls     []string
	queries   []url.Values
	filenames []string
}

func newFakeFetcher(responses map[string]string) *fakeFetcher {
	return &fakeFetcher{responses: responses, hub: map[string]string{}, purls: map[string]string{}}
}

func (f *fakeFetcher) Get(ctx context.Context, rawURL string, query url.Values) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := strings.TrimPrefix(rawURL, DefaultAPIURL)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record(path, query)
	if path == "/splcloud/fcgi-bin/fcg_get_diss_by_tag.fcg" {
		if body, ok := f.hub[query.Get("sin")]; ok {
			return []byte(body), nil
		}
		return []byte(hubEmpty), nil
	}
	key := path
	if t := query.Get("t"); t != "" {
		key += "?t=" + t
	}
	body, ok := f.responses[key]
	if !ok {
		return nil, &transport.StatusError{Method: "GET", URL: rawURL, Code: 404}
	}
	return []byte(body), nil
}

func (f *fakeFetcher) PostForm(ctx context.Context, rawURL string, form url.Values) ([]byte, error) {
	return nil, &transport.StatusError{Method: "POST", URL: rawURL, Code: 405}
}

func (f *fakeFetcher) PostJSON(ctx context.Context, rawURL string, body []byte) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	payload := string(body)
	switch {
	case strings.Contains(payload, "music.pf_song_detail_svr"):
		f.record("fileinfo", nil)
		if resp, ok := f.responses["fileinfo"]; ok {
			return []byte(resp), nil
		}
	case strings.Contains(payload, "music.vkey.GetVkey"):
		f.record("vkey", nil)
		for code, purl := range f.purls {
			if strings.Contains(payload, `"`+code) {
				f.filenames = append(f.filenames, code)
				return []byte(`{"code":0,"req":{"code":0,"data":{"midurlinfo":[{"purl":"` + purl + `","vkey":"k"}]}}}`), nil
			}
		}
		for _, code := range []string{"M800", "M500", "C400"} {
			if strings.Contains(payload, `"`+code) {
				f.filenames = append(f.filenames, code)
			}
		}
		return []byte(`{"code":0,"req":{"code":0,"data":{"midurlinfo":[{"purl":"","vkey":""}]}}}`), nil
	}
	return nil, &transport.StatusError{Method: "POST", URL: rawURL, Code: 404}
}

// record must be called with f.mu held.
func (f *fakeFetcher) record(path string, query url.Values) {
	f.calls = append(f.calls, path)
	f.queries = append(f.queries, query)
}

func (f *fakeFetcher) callCount(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == path {
			n++
		}
	}
	return n
}

func (f *fakeFetcher) lastQuery(path string) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i] == path {
			return f.queries[i]
		}
	}
	return nil
}

func newTestPlatform(f *fakeFetcher) *QQMusicPlatform {
	return NewPlatform(NewClient(f, Endpoints{}, "", nil))
}
