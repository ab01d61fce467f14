package server

const indexPage = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>Code Review Analyzer</title>
    <style>
        body { font-family: sans-serif; max-width: 860px; margin: 2em auto; padding: 0 1em; }
        form { border: 1px solid #ccc; border-radius: 4px; padding: 1em; margin-bottom: 1.5em; }
        pre { background: #f6f8fa; padding: 1em; overflow-x: auto; }
    </style>
</head>
<body>
    <h1>Code Review Analyzer</h1>

    <form id="single" enctype="multipart/form-data">
        <h2>Analyze a file</h2>
        <input type="file" name="file" accept=".py" required>
        <button type="submit">Analyze</button>
    </form>

    <form id="multiple" enctype="multipart/form-data">
        <h2>Analyze several files</h2>
        <input type="file" name="files" accept=".py" multiple required>
        <button type="submit">Analyze all</button>
    </form>

    <pre id="result"></pre>

    <script>
        async function submit(event, url) {
            event.preventDefault();
            const out = document.getElementById("result");
            out.textContent = "Analyzing...";
            try {
                const resp = await fetch(url, { method: "POST", body: new FormData(event.target) });
                out.textContent = JSON.stringify(await resp.json(), null, 2);
            } catch (err) {
                out.textContent = "Request failed: " + err;
            }
        }
        document.getElementById("single").addEventListener("submit", e => submit(e, "/analyze-file"));
        document.getElementById("multiple").addEventListener("submit", e => submit(e, "/analyze-multiple-files"));
    </script>
</body>
</html>
`
