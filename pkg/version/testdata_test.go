package version

const legacyDescriptor = `{
  "id": "1.12.2",
  "type": "release",
  "mainClass": "net.minecraft.client.main.Main",
  "assets": "1.12",
  "assetIndex": {"id": "1.12", "url": "http://example.invalid/1.12.json", "totalSize": 100},
  "downloads": {"client": {"url": "http://example.invalid/client.jar", "sha1": "abc", "size": 3}},
  "libraries": [
    {
      "name": "com.mojang:patchy:1.1",
      "downloads": {"artifact": {"path": "com/mojang/patchy/1.1/patchy-1.1.jar", "url": "http://example.invalid/patchy.jar", "sha1": "x", "size": 1}}
    },
    {
      "name": "org.lwjgl.lwjgl:lwjgl-platform:2.9.4",
      "natives": {"linux": "natives-linux", "windows": "natives-windows-${arch}"},
      "extract": {"exclude": ["META-INF/"]},
      "downloads": {"classifiers": {
        "natives-linux": {"path": "lwjgl-platform-natives-linux.jar", "url": "http://example.invalid/linux.jar"},
        "natives-windows-64": {"path": "lwjgl-platform-natives-windows.jar", "url": "http://example.invalid/win.jar"}
      }}
    }
  ],
  "minecraftArguments": "--username ${auth_player_name} --version ${version_name}"
}`

const modernDescriptor = `{
  "id": "1.16.5",
  "type": "release",
  "assets": "1.16",
  "assetIndex": {"id": "1.16", "url": "http://example.invalid/1.16.json"},
  "downloads": {"client": {"url": "http://example.invalid/client.jar"}},
  "libraries": [],
  "arguments": {
    "game": [
      "--username", "${auth_player_name}",
      {"rules": [{"action": "allow", "features": {"is_demo_user": true}}], "value": "--demo"},
      {"value": ["--width", "${resolution_width}"]},
      {"value": "--fullscreen"}
    ],
    "jvm": [
      {"rules": [{"action": "allow", "os": {"name": "osx"}}], "value": ["-XstartOnFirstThread"]},
      "-cp", "${classpath}"
    ]
  }
}`
